// expectd CLI - scripted mock HTTP(S) endpoint.
package main

import "github.com/getmockd/expectd/pkg/cli"

func main() {
	cli.Execute()
}
