// Package service implements the blink and compressed NFT registries.
//
// Every mutation runs inside a single ledger transaction. Any validation,
// authorization or compression failure rolls back the whole operation.
package service

import (
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mdouchement/blinkreg/internal/compression"
	"github.com/mdouchement/blinkreg/internal/database"
	"github.com/mdouchement/blinkreg/internal/layout"
	"github.com/mdouchement/blinkreg/internal/regerror"
	"github.com/sirupsen/logrus"
)

type (
	// Params are the basic fields used in requests.
	Params struct {
		// Signer is the base58 address that signed the request.
		Signer string `json:"-"`
	}

	// A Compression is the program holding the Merkle trees of the compressed NFTs.
	Compression interface {
		AddLeaf(db database.Client, treeID, authority string, leaf compression.Node) (uint32, error)
		ReplaceLeaf(db database.Client, treeID, authority string, index uint32, previous, leaf compression.Node) error
		RemoveLeaf(db database.Client, treeID, authority string, index uint32) error
	}

	// A Config holds the settings shared by the registries.
	Config struct {
		// StrictTypes restricts blink types to model.BlinkTypes.
		StrictTypes bool
		Mints       MintVerifier
		Compression Compression
		Clock       func() time.Time
		Logger      logrus.FieldLogger
	}
)

func (c Config) defaults() Config {
	if c.Mints == nil {
		c.Mints = NewSyntaxMintVerifier()
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// address returns the given account address or a freshly generated one.
func address(account string) (string, error) {
	if account == "" {
		return types.NewAccount().PublicKey.ToBase58(), nil
	}
	if _, err := layout.ParseAddress(account); err != nil {
		return "", err
	}
	return account, nil
}

// checkOwner returns an error if the signer is not the stored owner.
func checkOwner(owner, signer string) error {
	if owner != signer {
		return regerror.ErrConstraintHasOne
	}
	return nil
}

func notInitialized(db database.Client, err error) error {
	if db.IsNotFound(err) {
		return regerror.ErrAccountNotInitialized
	}
	return err
}

