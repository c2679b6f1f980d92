package client

import (
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mdouchement/blinkreg/pkg/libreg"
	"github.com/stretchr/testify/assert"
)

func credentials(t *testing.T, secret string) {
	file, prompt := credentialsfile, passphrase
	credentialsfile = filepath.Join(t.TempDir(), ".blinkctl")
	passphrase = func() ([]byte, error) { return []byte(secret), nil }
	t.Cleanup(func() {
		credentialsfile, passphrase = file, prompt
	})
}

func TestSaveLoad(t *testing.T) {
	credentials(t, "correct horse battery staple")

	signer := types.NewAccount()
	keypair, err := libreg.MarshalKeypair(signer)
	assert.NoError(t, err)

	assert.NoError(t, Save(Config{Endpoint: "http://localhost:5000", Keypair: keypair}))

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.Endpoint)

	loaded, err := cfg.Signer()
	assert.NoError(t, err)
	assert.Equal(t, signer.PublicKey, loaded.PublicKey)

	passphrase = func() ([]byte, error) { return []byte("wrong"), nil }
	_, err = Load()
	assert.EqualError(t, err, "could not decrypt credentials file: chacha20poly1305: message authentication failed")

	assert.NoError(t, Remove())
	_, err = Load()
	assert.Error(t, err)
}

func TestUnseal_Truncated(t *testing.T) {
	_, err := unseal([]byte("secret"), []byte("short"))
	assert.EqualError(t, err, "credentials file is truncated")

	ciphertext, err := seal([]byte("secret"), []byte(`{"endpoint":"http://localhost:5000"}`))
	assert.NoError(t, err)

	payload, err := unseal([]byte("secret"), ciphertext)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"endpoint":"http://localhost:5000"}`, string(payload))
}
