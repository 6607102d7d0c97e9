package adapter

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePEM(t *testing.T, dir, name, typ string, der []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b := pem.EncodeToMemory(&pem.Block{Type: typ, Bytes: der})
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func selfSigned(t *testing.T) (certPath, keyPath string) {
	t.Helper()
	dir := t.TempDir()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "qclog-test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(priv)
	require.NoError(t, err)

	return writePEM(t, dir, "cert.pem", "CERTIFICATE", der),
		writePEM(t, dir, "key.pem", "EC PRIVATE KEY", keyDER)
}

func TestMakeTLSConfig(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		cfg, err := MakeTLSConfig("", "", "")
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("Partial", func(t *testing.T) {
		_, err := MakeTLSConfig("ca.pem", "", "")
		require.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		dir := t.TempDir()
		_, err := MakeTLSConfig(
			filepath.Join(dir, "ca.pem"),
			filepath.Join(dir, "cert.pem"),
			filepath.Join(dir, "key.pem"),
		)
		require.Error(t, err)
	})

	t.Run("InvalidCA", func(t *testing.T) {
		cert, key := selfSigned(t)
		ca := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(ca, []byte("not a pem"), 0o600))

		_, err := MakeTLSConfig(ca, cert, key)
		require.Error(t, err)
	})

	t.Run("Regular", func(t *testing.T) {
		cert, key := selfSigned(t)

		cfg, err := MakeTLSConfig(cert, cert, key)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Len(t, cfg.Certificates, 1)
		assert.NotNil(t, cfg.RootCAs)
	})
}
