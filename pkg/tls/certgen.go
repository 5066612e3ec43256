// Package tls provisions the self-signed test identity used when a
// session requests TLS without supplying its own certificate material.
package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"
)

// IdentityConfig contains options for test identity generation.
type IdentityConfig struct {
	// Organization name for the certificate.
	Organization string
	// Common name (CN) for the certificate.
	CommonName string
	// DNS names the certificate is valid for.
	DNSNames []string
	// IP addresses the certificate is valid for.
	IPAddresses []net.IP
	// Validity duration.
	ValidFor time.Duration
}

// DefaultIdentityConfig returns a configuration suitable for a
// loopback-only mock endpoint.
func DefaultIdentityConfig() *IdentityConfig {
	return &IdentityConfig{
		Organization: "expectd",
		CommonName:   "localhost",
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")},
		ValidFor:     24 * time.Hour,
	}
}

// Identity is a generated certificate/key pair ready for use by both
// sides of a test: the server presents Certificate, the client trusts
// Leaf via a cert pool. CertPEM and KeyPEM carry the same material in
// PEM form for callers that persist or forward it.
type Identity struct {
	Certificate tls.Certificate
	Leaf        *x509.Certificate
	CertPEM     []byte
	KeyPEM      []byte
}

// ClientPool returns a certificate pool containing only the identity's
// leaf certificate, for wiring into a test client's RootCAs.
func (id *Identity) ClientPool() *x509.CertPool {
	pool := x509.NewCertPool()
	pool.AddCert(id.Leaf)
	return pool
}

// GenerateIdentity generates a self-signed ECDSA P-256 test identity.
func GenerateIdentity(cfg *IdentityConfig) (*Identity, error) {
	if cfg == nil {
		cfg = DefaultIdentityConfig()
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}

	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	notBefore := time.Now()
	template := &x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: []string{cfg.Organization},
			CommonName:   cfg.CommonName,
		},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(cfg.ValidFor),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              cfg.DNSNames,
		IPAddresses:           cfg.IPAddresses,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	leaf, err := x509.ParseCertificate(certDER)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	return &Identity{
		Certificate: tls.Certificate{
			Certificate: [][]byte{certDER},
			PrivateKey:  key,
			Leaf:        leaf,
		},
		Leaf:    leaf,
		CertPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER}),
		KeyPEM:  pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}),
	}, nil
}
