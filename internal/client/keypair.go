package client

import (
	"os"

	"github.com/mdouchement/blinkreg/pkg/libreg"
	"github.com/pkg/errors"
)

// Unseal writes the stored signer keypair in Solana CLI format.
func Unseal(filename string) error {
	cfg, err := Load()
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	//
	//

	signer, err := cfg.Signer()
	if err != nil {
		return errors.Wrap(err, "could not load signer")
	}

	payload, err := libreg.MarshalKeypair(signer)
	if err != nil {
		return errors.Wrap(err, "could not serialize keypair")
	}

	return errors.Wrap(os.WriteFile(filename, payload, 0600), "could not write keypair")
}
