package service_test

import (
	"strings"
	"testing"

	"github.com/mdouchement/blinkreg/internal/compression"
	"github.com/mdouchement/blinkreg/internal/layout"
	"github.com/mdouchement/blinkreg/internal/regerror"
	"github.com/mdouchement/blinkreg/internal/service"
	"github.com/stretchr/testify/assert"
)

func createNftParams(owner, tree string) service.CreateCompressedNftParams {
	return service.CreateCompressedNftParams{
		Params:               service.Params{Signer: owner},
		MerkleTree:           tree,
		Name:                 "Ticket #1",
		Symbol:               "TIX",
		URI:                  "https://arweave.net/ticket-1.json",
		SellerFeeBasisPoints: 500,
	}
}

func TestCompressedNftCreate(t *testing.T) {
	e := setup(t, false)
	registry := service.NewCompressedNftRegistry(e.db, e.cfg)
	owner := address()
	tree := e.tree(t, owner, 3)

	params := createNftParams(owner, tree)
	params.Account = address()
	nft, err := registry.Create(params)
	assert.NoError(t, err)

	stored, err := registry.Get(params.Account)
	assert.NoError(t, err)
	assert.Equal(t, owner, stored.Owner)
	assert.Equal(t, params.Name, stored.Name)
	assert.Equal(t, params.Symbol, stored.Symbol)
	assert.Equal(t, params.URI, stored.URI)
	assert.Equal(t, params.SellerFeeBasisPoints, stored.SellerFeeBasisPoints)
	assert.False(t, stored.PrimarySaleHappened)
	assert.True(t, stored.IsMutable)
	assert.Equal(t, tree, stored.TreeID)
	assert.Equal(t, uint64(0), stored.LeafID)
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)
	assert.Equal(t, layout.RentExemptMinimum(layout.CompressedNftSpace), stored.Lamports)

	leaf, err := registry.Leaf(nft)
	assert.NoError(t, err)
	proof, err := e.program.Proof(e.db, tree, 0)
	assert.NoError(t, err)
	assert.Equal(t, leaf, proof.Leaf)
	assert.True(t, compression.Verify(proof.Root, proof.Leaf, 0, proof.Proof))

	wallet, err := service.Wallet(e.db, owner)
	assert.NoError(t, err)
	assert.Equal(t, layout.RentExemptMinimum(layout.CompressedNftSpace), wallet.Locked)
}

func TestCompressedNftCreate_LeafIDNotSynced(t *testing.T) {
	e := setup(t, false)
	registry := service.NewCompressedNftRegistry(e.db, e.cfg)
	owner := address()
	tree := e.tree(t, owner, 3)

	_, err := registry.Create(createNftParams(owner, tree))
	assert.NoError(t, err)
	second, err := registry.Create(createNftParams(owner, tree))
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), second.LeafID)

	stored, err := e.db.FindTree(tree)
	assert.NoError(t, err)
	assert.Equal(t, uint32(2), stored.RightmostIndex)
}

func TestCompressedNftCreate_Validation(t *testing.T) {
	e := setup(t, false)
	registry := service.NewCompressedNftRegistry(e.db, e.cfg)
	owner := address()
	tree := e.tree(t, owner, 3)

	tests := []struct {
		name   string
		update func(p *service.CreateCompressedNftParams)
		err    error
	}{
		{
			name:   "name too long",
			update: func(p *service.CreateCompressedNftParams) { p.Name = strings.Repeat("n", 33) },
			err:    regerror.ErrNameTooLong,
		},
		{
			name:   "symbol too long",
			update: func(p *service.CreateCompressedNftParams) { p.Symbol = strings.Repeat("s", 11) },
			err:    regerror.ErrSymbolTooLong,
		},
		{
			name:   "uri too long",
			update: func(p *service.CreateCompressedNftParams) { p.URI = strings.Repeat("u", 201) },
			err:    regerror.ErrURITooLong,
		},
		{
			name:   "royalty over 100%",
			update: func(p *service.CreateCompressedNftParams) { p.SellerFeeBasisPoints = 10001 },
			err:    regerror.ErrInvalidSellerFeeBasisPoints,
		},
		{
			name:   "invalid tree",
			update: func(p *service.CreateCompressedNftParams) { p.MerkleTree = "tree" },
			err:    regerror.ErrInvalidAddress,
		},
		{
			name:   "unknown tree",
			update: func(p *service.CreateCompressedNftParams) { p.MerkleTree = address() },
			err:    regerror.ErrAccountNotInitialized,
		},
		{
			name:   "not the tree authority",
			update: func(p *service.CreateCompressedNftParams) { p.Signer = address() },
			err:    regerror.ErrIncorrectAuthority,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			params := createNftParams(owner, tree)
			params.Account = address()
			test.update(&params)

			_, err := registry.Create(params)
			assert.Equal(t, test.err, cause(err))

			_, err = registry.Get(params.Account)
			assert.Equal(t, regerror.ErrAccountNotInitialized, err)
		})
	}

	stored, err := e.db.FindTree(tree)
	assert.NoError(t, err)
	assert.Zero(t, stored.Sequence)
}

func TestCompressedNftCreate_Bounds(t *testing.T) {
	e := setup(t, false)
	registry := service.NewCompressedNftRegistry(e.db, e.cfg)
	owner := address()
	tree := e.tree(t, owner, 3)

	params := createNftParams(owner, tree)
	params.Name = strings.Repeat("n", 32)
	params.Symbol = strings.Repeat("s", 10)
	params.URI = strings.Repeat("u", 200)
	params.SellerFeeBasisPoints = 10000

	nft, err := registry.Create(params)
	assert.NoError(t, err)
	assert.Equal(t, uint16(10000), nft.SellerFeeBasisPoints)
}

func TestCompressedNftCreate_TreeFullRollsBack(t *testing.T) {
	e := setup(t, false)
	registry := service.NewCompressedNftRegistry(e.db, e.cfg)
	owner := address()
	tree := e.tree(t, owner, 1)

	for i := 0; i < 2; i++ {
		_, err := registry.Create(createNftParams(owner, tree))
		assert.NoError(t, err)
	}

	params := createNftParams(owner, tree)
	params.Account = address()
	_, err := registry.Create(params)
	assert.Equal(t, regerror.ErrTreeFull, err)

	_, err = registry.Get(params.Account)
	assert.Equal(t, regerror.ErrAccountNotInitialized, err)

	nfts, err := registry.List(owner)
	assert.NoError(t, err)
	assert.Len(t, nfts, 2)

	wallet, err := service.Wallet(e.db, owner)
	assert.NoError(t, err)
	assert.Equal(t, 2*layout.RentExemptMinimum(layout.CompressedNftSpace), wallet.Locked)

	stored, err := e.db.FindTree(tree)
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), stored.Sequence)

	entries, err := e.db.FindChangeLogs(tree, 0)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCompressedNftTransfer(t *testing.T) {
	e := setup(t, false)
	registry := service.NewCompressedNftRegistry(e.db, e.cfg)
	owner := address()
	recipient := address()
	tree := e.tree(t, owner, 3)

	nft, err := registry.Create(createNftParams(owner, tree))
	assert.NoError(t, err)

	_, err = registry.Transfer(service.TransferParams{
		Params:    service.Params{Signer: recipient},
		Address:   nft.ID,
		Recipient: recipient,
	})
	assert.Equal(t, regerror.ErrConstraintHasOne, err)

	e.clock.advance(10)
	transferred, err := registry.Transfer(service.TransferParams{
		Params:    service.Params{Signer: owner},
		Address:   nft.ID,
		Recipient: recipient,
	})
	assert.NoError(t, err)
	assert.Equal(t, recipient, transferred.Owner)
	assert.Equal(t, nft.CreatedAt+10, transferred.UpdatedAt)

	stored, err := registry.Get(nft.ID)
	assert.NoError(t, err)
	assert.Equal(t, recipient, stored.Owner)

	leaf, err := registry.Leaf(stored)
	assert.NoError(t, err)
	proof, err := e.program.Proof(e.db, tree, 0)
	assert.NoError(t, err)
	assert.Equal(t, leaf, proof.Leaf)

	from, err := service.Wallet(e.db, owner)
	assert.NoError(t, err)
	assert.Zero(t, from.Locked)
	to, err := service.Wallet(e.db, recipient)
	assert.NoError(t, err)
	assert.Equal(t, stored.Lamports, to.Locked)
}

func TestCompressedNftTransfer_StrictReplaceRollsBack(t *testing.T) {
	e := setup(t, true)
	registry := service.NewCompressedNftRegistry(e.db, e.cfg)
	owner := address()
	tree := e.tree(t, owner, 3)

	nft, err := registry.Create(createNftParams(owner, tree))
	assert.NoError(t, err)
	before, err := e.db.FindTree(tree)
	assert.NoError(t, err)

	_, err = registry.Transfer(service.TransferParams{
		Params:    service.Params{Signer: owner},
		Address:   nft.ID,
		Recipient: address(),
	})
	assert.Equal(t, regerror.ErrLeafContentsModified, err)

	stored, err := registry.Get(nft.ID)
	assert.NoError(t, err)
	assert.Equal(t, owner, stored.Owner)

	after, err := e.db.FindTree(tree)
	assert.NoError(t, err)
	assert.Equal(t, before.Sequence, after.Sequence)
	assert.Equal(t, before.Root, after.Root)

	wallet, err := service.Wallet(e.db, owner)
	assert.NoError(t, err)
	assert.Equal(t, stored.Lamports, wallet.Locked)
}

func TestCompressedNftTransfer_InvalidRecipient(t *testing.T) {
	e := setup(t, false)
	registry := service.NewCompressedNftRegistry(e.db, e.cfg)

	_, err := registry.Transfer(service.TransferParams{
		Params:    service.Params{Signer: address()},
		Address:   address(),
		Recipient: "nobody",
	})
	assert.Equal(t, regerror.ErrInvalidAddress, cause(err))
}

func TestCompressedNftBurn(t *testing.T) {
	e := setup(t, false)
	registry := service.NewCompressedNftRegistry(e.db, e.cfg)
	owner := address()
	tree := e.tree(t, owner, 3)

	nft, err := registry.Create(createNftParams(owner, tree))
	assert.NoError(t, err)

	err = registry.Burn(service.DeleteParams{Params: service.Params{Signer: address()}, Address: nft.ID})
	assert.Equal(t, regerror.ErrConstraintHasOne, err)
	_, err = registry.Get(nft.ID)
	assert.NoError(t, err)

	err = registry.Burn(service.DeleteParams{Params: service.Params{Signer: owner}, Address: nft.ID})
	assert.NoError(t, err)
	_, err = registry.Get(nft.ID)
	assert.Equal(t, regerror.ErrAccountNotInitialized, err)

	proof, err := e.program.Proof(e.db, tree, 0)
	assert.NoError(t, err)
	assert.Equal(t, compression.EmptyNode, proof.Leaf)

	wallet, err := service.Wallet(e.db, owner)
	assert.NoError(t, err)
	assert.Zero(t, wallet.Locked)
	assert.Equal(t, nft.Lamports, wallet.Refunded)
}

func TestCompressedNftBurn_AfterTransfer(t *testing.T) {
	e := setup(t, false)
	registry := service.NewCompressedNftRegistry(e.db, e.cfg)
	owner := address()
	recipient := address()
	tree := e.tree(t, owner, 3)

	nft, err := registry.Create(createNftParams(owner, tree))
	assert.NoError(t, err)
	_, err = registry.Transfer(service.TransferParams{
		Params:    service.Params{Signer: owner},
		Address:   nft.ID,
		Recipient: recipient,
	})
	assert.NoError(t, err)

	// The recipient is not the authority of the private tree.
	err = registry.Burn(service.DeleteParams{Params: service.Params{Signer: recipient}, Address: nft.ID})
	assert.Equal(t, regerror.ErrIncorrectAuthority, err)

	_, err = registry.Get(nft.ID)
	assert.NoError(t, err)
	wallet, err := service.Wallet(e.db, recipient)
	assert.NoError(t, err)
	assert.Zero(t, wallet.Refunded)
}
