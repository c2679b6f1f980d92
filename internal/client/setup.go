package client

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/chzyer/readline"
	"github.com/mdouchement/blinkreg/pkg/libreg"
	"github.com/pkg/errors"
)

// Setup registers the blinkreg endpoint and the signer keypair.
// A new keypair is generated when no keypair file is given.
func Setup(keypairfile string) error {
	cfg := Config{}

	endpoint, err := readline.Line("Endpoint: ")
	if err != nil {
		return errors.Wrap(err, "could not read endpoint from stdin")
	}
	cfg.Endpoint = endpoint

	client, err := libreg.NewDefaultClient(cfg.Endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "could not reach given endpoint")
	}

	version, err := client.Version()
	if err != nil {
		return errors.Wrap(err, "could not get server version")
	}
	fmt.Println("Server version:", version)

	signer := types.NewAccount()
	if keypairfile != "" {
		signer, err = libreg.LoadKeypair(keypairfile)
		if err != nil {
			return err
		}
	}

	cfg.Keypair, err = libreg.MarshalKeypair(signer)
	if err != nil {
		return errors.Wrap(err, "could not serialize keypair")
	}
	fmt.Println("Signer:", signer.PublicKey.ToBase58())

	return Save(cfg)
}

// Forget removes the stored credentials.
func Forget() error {
	if _, err := Load(); err != nil {
		return errors.Wrap(err, "could not load config")
	}

	return errors.Wrap(Remove(), "could not remove credential file")
}

// Address prints the signer address.
func Address() error {
	cfg, err := Load()
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	signer, err := cfg.Signer()
	if err != nil {
		return errors.Wrap(err, "could not load signer")
	}

	fmt.Println(signer.PublicKey.ToBase58())
	return nil
}
