package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/getmockd/expectd/pkg/config"
	"github.com/getmockd/expectd/pkg/engine"
	"github.com/getmockd/expectd/pkg/expect"
	"github.com/getmockd/expectd/pkg/logging"
	"github.com/spf13/cobra"
)

// serveFlags holds the flag values bound to the serve command.
type serveFlags struct {
	scenarioFile string
	port         int
	tls          bool
	certFile     string
	keyFile      string
	logLevel     string
	logFormat    string
}

var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a scripted mock endpoint from a scenario file",
	Example: `  # Serve a scenario on an ephemeral port
  expectd serve --scenario mocks.yaml

  # Pin the port and enable TLS with a generated certificate
  expectd serve --scenario mocks.yaml --port 8443 --tls

  # Use your own certificate material
  expectd serve --scenario mocks.yaml --tls --cert cert.pem --key key.pem`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(serveFlagVals)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlagVals.scenarioFile, "scenario", "s", "", "Scenario file (YAML or JSON)")
	serveCmd.Flags().IntVarP(&serveFlagVals.port, "port", "p", 0, "Port to listen on (0 = ephemeral)")
	serveCmd.Flags().BoolVar(&serveFlagVals.tls, "tls", false, "Serve HTTPS")
	serveCmd.Flags().StringVar(&serveFlagVals.certFile, "cert", "", "TLS certificate file (PEM)")
	serveCmd.Flags().StringVar(&serveFlagVals.keyFile, "key", "", "TLS key file (PEM)")
	serveCmd.Flags().StringVar(&serveFlagVals.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveFlagVals.logFormat, "log-format", "text", "Log format (text or json)")
	_ = serveCmd.MarkFlagRequired("scenario")

	rootCmd.AddCommand(serveCmd)
}

// buildScenario loads the scenario file and overlays command-line flags
// on its session configuration. Flags win over file values.
func buildScenario(flags serveFlags) (*config.Scenario, error) {
	sc, err := config.LoadScenario(flags.scenarioFile)
	if err != nil {
		return nil, err
	}

	if flags.port != 0 {
		sc.Port = flags.port
	}
	if flags.tls {
		sc.TLS = true
	}
	if flags.certFile != "" {
		sc.CertFile = flags.certFile
	}
	if flags.keyFile != "" {
		sc.KeyFile = flags.keyFile
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func runServe(flags serveFlags) error {
	sc, err := buildScenario(flags)
	if err != nil {
		return err
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(flags.logLevel),
		Format: logging.Format(flags.logFormat),
	})

	srv, err := expect.StartServer(&sc.SessionConfig, expect.WithLogger(log))
	if err != nil {
		return err
	}
	srv.Register(sc.EngineRules()...)

	fmt.Printf("expectd listening on %s (%d rules)\n", srv.URL(), len(sc.Rules))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	v := srv.Teardown()
	switch v.Kind {
	case engine.VerdictOk:
		fmt.Println("all expectations met")
		return nil
	default:
		return fmt.Errorf("verification failed: %s", v.Message)
	}
}
