package service

import (
	"context"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/mdouchement/blinkreg/internal/layout"
	"github.com/mdouchement/blinkreg/internal/regerror"
	"github.com/pkg/errors"
)

type (
	// A MintVerifier checks that an address is an SPL token mint.
	MintVerifier interface {
		VerifyMint(ctx context.Context, address string) error
	}

	syntaxMint struct{}

	rpcMint struct {
		c *client.Client
	}
)

// NewSyntaxMintVerifier returns a MintVerifier that only checks the address encoding.
func NewSyntaxMintVerifier() MintVerifier {
	return syntaxMint{}
}

func (syntaxMint) VerifyMint(_ context.Context, address string) error {
	_, err := layout.ParseAddress(address)
	return err
}

// NewRPCMintVerifier returns a MintVerifier that fetches the mint account from a Solana RPC endpoint.
func NewRPCMintVerifier(endpoint string) MintVerifier {
	return &rpcMint{
		c: client.NewClient(endpoint),
	}
}

func (v *rpcMint) VerifyMint(ctx context.Context, address string) error {
	if _, err := layout.ParseAddress(address); err != nil {
		return err
	}

	info, err := v.c.GetAccountInfo(ctx, address)
	if err != nil {
		return errors.Wrap(err, "could not fetch mint account")
	}

	if info.Lamports == 0 && len(info.Data) == 0 {
		return regerror.ErrAccountNotInitialized
	}
	if info.Owner != common.TokenProgramID || uint64(len(info.Data)) != uint64(token.MintAccountSize) {
		return regerror.ErrAccountOwnedByWrongProgram
	}
	return nil
}
