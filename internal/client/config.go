package client

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/chzyer/readline"
	"github.com/mdouchement/blinkreg/pkg/libreg"
	sargon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const saltKeyLength = 16

var (
	credentialsfile = ".blinkctl"

	passphrase = func() ([]byte, error) {
		return readline.Password("passphrase: ")
	}
)

// A Config holds client's configuration.
type Config struct {
	Endpoint string `json:"endpoint"`
	// Keypair is the signer secret key in Solana CLI format.
	Keypair json.RawMessage `json:"keypair"`
}

// Signer returns the account used to sign requests.
func (cfg Config) Signer() (types.Account, error) {
	return libreg.ParseKeypair(cfg.Keypair)
}

// Client returns a blinkreg client signing with the configured keypair.
func (cfg Config) Client() (libreg.Client, error) {
	signer, err := cfg.Signer()
	if err != nil {
		return nil, errors.Wrap(err, "could not load signer")
	}

	client, err := libreg.NewDefaultClient(cfg.Endpoint, &signer)
	return client, errors.Wrap(err, "could not reach given endpoint")
}

// Remove removes the credential files from the current directory.
func Remove() error {
	return os.Remove(credentialsfile)
}

// Load gets the configuration from the current folder according to `credentialsfile` var.
func Load() (Config, error) {
	fmt.Println("Loading credentials from " + credentialsfile)
	var cfg Config

	ciphertext, err := os.ReadFile(credentialsfile)
	if err != nil {
		return cfg, errors.Wrap(err, "could not read credentials file")
	}

	secret, err := passphrase()
	if err != nil {
		return cfg, errors.Wrap(err, "could not read passphrase from stdin")
	}

	payload, err := unseal(secret, ciphertext)
	if err != nil {
		return cfg, err
	}

	err = json.Unmarshal(payload, &cfg)
	if err != nil {
		return cfg, errors.Wrap(err, "could not parse config")
	}

	return cfg, nil
}

// Save stores the configuration in the current folder according to `credentialsfile` var.
func Save(cfg Config) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "could not serialize config")
	}

	fmt.Println("Storing credentials in current directory as " + credentialsfile)
	secret, err := passphrase()
	if err != nil {
		return errors.Wrap(err, "could not read passphrase from stdin")
	}

	ciphertext, err := seal(secret, payload)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(credentialsfile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", credentialsfile)
	}
	defer f.Close()

	_, err = f.Write(ciphertext)
	if err != nil {
		return errors.Wrap(err, "could not store credentials")
	}

	return errors.Wrap(f.Sync(), "could not store credentials")
}

// seal encrypts the payload with a key derived from the passphrase.
// The result is salt || nonce || ciphertext.
func seal(secret, payload []byte) ([]byte, error) {
	//
	// Key derivation of passphrase

	salt, err := sargon2.GenerateRandomBytes(saltKeyLength)
	if err != nil {
		return nil, errors.Wrap(err, "could not generate salt for credentials")
	}
	hash := argon2.IDKey(secret, salt, 3, 64<<10, 2, 32)

	//
	// Seal config

	aead, err := chacha20poly1305.NewX(hash)
	if err != nil {
		return nil, errors.Wrap(err, "could not create AEAD")
	}
	nonce, err := sargon2.GenerateRandomBytes(uint32(aead.NonceSize()))
	if err != nil {
		return nil, errors.Wrap(err, "could not generate nonce for credentials")
	}

	ciphertext := aead.Seal(nil, nonce, payload, nil)
	ciphertext = append(nonce, ciphertext...)
	return append(salt, ciphertext...), nil
}

func unseal(secret, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < saltKeyLength+chacha20poly1305.NonceSizeX {
		return nil, errors.New("credentials file is truncated")
	}

	//
	// Key derivation of passphrase

	salt := ciphertext[:saltKeyLength]
	ciphertext = ciphertext[saltKeyLength:]
	hash := argon2.IDKey(secret, salt, 3, 64<<10, 2, 32)

	//
	// Unseal config

	aead, err := chacha20poly1305.NewX(hash)
	if err != nil {
		return nil, errors.Wrap(err, "could not create AEAD")
	}

	nonce := ciphertext[:aead.NonceSize()]
	ciphertext = ciphertext[aead.NonceSize():]

	payload, err := aead.Open(nil, nonce, ciphertext, nil)
	return payload, errors.Wrap(err, "could not decrypt credentials file")
}
