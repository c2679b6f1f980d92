package service

import (
	"unicode/utf8"

	"github.com/mdouchement/blinkreg/internal/compression"
	"github.com/mdouchement/blinkreg/internal/database"
	"github.com/mdouchement/blinkreg/internal/layout"
	"github.com/mdouchement/blinkreg/internal/model"
	"github.com/mdouchement/blinkreg/internal/regerror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Compressed NFT field bounds.
const (
	MaxNftNameLength        = 32
	MaxNftSymbolLength      = 10
	MaxNftURILength         = 200
	MaxSellerFeeBasisPoints = 10000
)

type (
	// CreateCompressedNftParams are used to mint a compressed NFT.
	CreateCompressedNftParams struct {
		Params
		Account              string `json:"account"` // Generated when empty
		MerkleTree           string `json:"merkle_tree"`
		Name                 string `json:"name"`
		Symbol               string `json:"symbol"`
		URI                  string `json:"uri"`
		SellerFeeBasisPoints uint16 `json:"seller_fee_basis_points"`
	}

	// TransferParams are used to transfer a compressed NFT.
	TransferParams struct {
		Params
		Address   string `json:"-"`
		Recipient string `json:"recipient"`
	}

	// A CompressedNftRegistry manages compressed NFT accounts and their tree leaves.
	CompressedNftRegistry struct {
		db      database.Client
		program Compression
		now     func() int64
		log     logrus.FieldLogger
	}
)

// NewCompressedNftRegistry returns a new CompressedNftRegistry.
func NewCompressedNftRegistry(db database.Client, cfg Config) *CompressedNftRegistry {
	cfg = cfg.defaults()
	return &CompressedNftRegistry{
		db:      db,
		program: cfg.Compression,
		now:     func() int64 { return cfg.Clock().Unix() },
		log:     cfg.Logger,
	}
}

// Create mints a compressed NFT owned by the signer and appends its leaf to the tree.
func (s *CompressedNftRegistry) Create(params CreateCompressedNftParams) (*model.CompressedNft, error) {
	switch {
	case utf8.RuneCountInString(params.Name) > MaxNftNameLength:
		return nil, regerror.ErrNameTooLong
	case utf8.RuneCountInString(params.Symbol) > MaxNftSymbolLength:
		return nil, regerror.ErrSymbolTooLong
	case utf8.RuneCountInString(params.URI) > MaxNftURILength:
		return nil, regerror.ErrURITooLong
	case params.SellerFeeBasisPoints > MaxSellerFeeBasisPoints:
		return nil, regerror.ErrInvalidSellerFeeBasisPoints
	}

	account, err := address(params.Account)
	if err != nil {
		return nil, errors.Wrap(err, "account")
	}
	if _, err = layout.ParseAddress(params.MerkleTree); err != nil {
		return nil, errors.Wrap(err, "merkle_tree")
	}

	nft := &model.CompressedNft{
		Owner:                params.Signer,
		Name:                 params.Name,
		Symbol:               params.Symbol,
		URI:                  params.URI,
		SellerFeeBasisPoints: params.SellerFeeBasisPoints,
		PrimarySaleHappened:  false,
		IsMutable:            true,
		TreeID:               params.MerkleTree,
		LeafID:               0,
		Lamports:             layout.RentExemptMinimum(layout.CompressedNftSpace),
	}
	nft.ID = account

	err = s.db.Atomic(func(tx database.Client) error {
		exists, err := tx.AccountExists(nft.ID)
		if err != nil {
			return errors.Wrap(err, "could not get access to database")
		}
		if exists {
			return regerror.ErrAccountAlreadyInUse
		}

		now := s.now()
		nft.SetCreatedAt(now)
		nft.SetUpdatedAt(now)

		if _, err = layout.EncodeCompressedNft(nft); err != nil {
			return err
		}
		leaf, err := layout.LeafHash(nft)
		if err != nil {
			return err
		}

		// LeafID stays 0 whatever index the tree used.
		index, err := s.program.AddLeaf(tx, nft.TreeID, nft.Owner, leaf)
		if err != nil {
			return err
		}
		s.log.WithFields(logrus.Fields{
			"cnft":  nft.ID,
			"tree":  nft.TreeID,
			"index": index,
		}).Debug("leaf appended")

		if err = tx.Save(nft); err != nil {
			return errors.Wrap(err, "could not save compressed nft")
		}
		return lock(tx, nft.Owner, nft.Lamports, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"cnft": nft.ID, "owner": nft.Owner}).Info("compressed nft created")
	return nft, nil
}

// Transfer gives the compressed NFT to the recipient and replaces its leaf.
func (s *CompressedNftRegistry) Transfer(params TransferParams) (*model.CompressedNft, error) {
	if _, err := layout.ParseAddress(params.Recipient); err != nil {
		return nil, errors.Wrap(err, "recipient")
	}

	var nft *model.CompressedNft

	err := s.db.Atomic(func(tx database.Client) (err error) {
		nft, err = tx.FindCompressedNft(params.Address)
		if err != nil {
			return notInitialized(tx, err)
		}
		if err = checkOwner(nft.Owner, params.Signer); err != nil {
			return err
		}

		previous := nft.Owner
		nft.Owner = params.Recipient
		nft.SetUpdatedAt(max(s.now(), nft.CreatedAt))

		leaf, err := layout.LeafHash(nft)
		if err != nil {
			return err
		}

		// The new leaf is given as the previous one too.
		err = s.program.ReplaceLeaf(tx, nft.TreeID, previous, uint32(nft.LeafID), leaf, leaf)
		if err != nil {
			return err
		}

		if err = tx.Save(nft); err != nil {
			return errors.Wrap(err, "could not save compressed nft")
		}

		// The deposit follows the account.
		return move(tx, previous, nft.Owner, nft.Lamports, nft.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}

	return nft, nil
}

// Burn removes the leaf of the compressed NFT, closes the account and refunds its deposit.
func (s *CompressedNftRegistry) Burn(params DeleteParams) error {
	return s.db.Atomic(func(tx database.Client) error {
		nft, err := tx.FindCompressedNft(params.Address)
		if err != nil {
			return notInitialized(tx, err)
		}
		if err = checkOwner(nft.Owner, params.Signer); err != nil {
			return err
		}

		if err = s.program.RemoveLeaf(tx, nft.TreeID, nft.Owner, uint32(nft.LeafID)); err != nil {
			return err
		}

		if err = tx.Delete(nft); err != nil {
			return errors.Wrap(err, "could not delete compressed nft")
		}
		return refund(tx, nft.Owner, nft.Lamports, s.now())
	})
}

// Get returns the compressed NFT stored at the given address.
func (s *CompressedNftRegistry) Get(address string) (*model.CompressedNft, error) {
	nft, err := s.db.FindCompressedNft(address)
	if err != nil {
		return nil, notInitialized(s.db, err)
	}
	return nft, nil
}

// List returns the compressed NFTs owned by the given address.
func (s *CompressedNftRegistry) List(owner string) ([]*model.CompressedNft, error) {
	return s.db.FindCompressedNftsByOwner(owner)
}

// Leaf returns the current leaf hash of the compressed NFT.
func (s *CompressedNftRegistry) Leaf(nft *model.CompressedNft) (compression.Node, error) {
	return layout.LeafHash(nft)
}
