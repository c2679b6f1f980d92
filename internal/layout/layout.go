// Package layout defines the serialized form of the registry accounts.
//
// Accounts are Borsh encoded behind an 8-byte discriminator and must fit
// a fixed space allocated at creation time.
package layout

import (
	"crypto/sha256"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/mdouchement/blinkreg/internal/model"
	"github.com/mdouchement/blinkreg/internal/regerror"
	"github.com/mr-tron/base58"
	"github.com/near/borsh-go"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// DiscriminatorSize is the length of the account type prefix.
const DiscriminatorSize = 8

// String allowances in bytes used to size the accounts.
// Only the whole account must fit its space.
const (
	BlinkNameSize           = 50
	BlinkDescriptionSize    = 200
	BlinkTypeSize           = 20
	CompressedNftNameSize   = 32
	CompressedNftSymbolSize = 10
	CompressedNftURISize    = 200
)

// Allocated account spaces, discriminator included.
const (
	BlinkSpace = DiscriminatorSize +
		32 + // owner
		32 + // mint
		4 + BlinkNameSize +
		4 + BlinkDescriptionSize +
		4 + BlinkTypeSize +
		1 + // is_nft
		1 + // is_donation
		1 + // is_gift
		1 + // is_payment
		1 + // is_poll
		8 + // created_at
		8 // updated_at

	CompressedNftSpace = DiscriminatorSize +
		32 + // owner
		4 + CompressedNftNameSize +
		4 + CompressedNftSymbolSize +
		4 + CompressedNftURISize +
		2 + // seller_fee_basis_points
		1 + // primary_sale_happened
		1 + // is_mutable
		32 + // tree_id
		8 // leaf_id
)

type (
	blinkAccount struct {
		Owner       common.PublicKey
		Mint        common.PublicKey
		Name        string
		Description string
		BlinkType   string
		IsNFT       bool
		IsDonation  bool
		IsGift      bool
		IsPayment   bool
		IsPoll      bool
		CreatedAt   int64
		UpdatedAt   int64
	}

	compressedNftAccount struct {
		Owner                common.PublicKey
		Name                 string
		Symbol               string
		URI                  string
		SellerFeeBasisPoints uint16
		PrimarySaleHappened  bool
		IsMutable            bool
		TreeID               common.PublicKey
		LeafID               uint64
	}
)

// Discriminator returns the account type prefix for the given account name.
func Discriminator(name string) [DiscriminatorSize]byte {
	var d [DiscriminatorSize]byte
	sum := sha256.Sum256([]byte("account:" + name))
	copy(d[:], sum[:DiscriminatorSize])
	return d
}

// ParseAddress decodes a base58 address.
func ParseAddress(address string) (common.PublicKey, error) {
	b, err := base58.Decode(address)
	if err != nil || len(b) != common.PublicKeyLength {
		return common.PublicKey{}, regerror.ErrInvalidAddress
	}
	return common.PublicKeyFromBytes(b), nil
}

// EncodeBlink returns the account data of the given blink.
func EncodeBlink(m *model.Blink) ([]byte, error) {
	owner, err := ParseAddress(m.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	mint, err := ParseAddress(m.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "mint")
	}
	return encode("Blink", BlinkSpace, blinkAccount{
		Owner:       owner,
		Mint:        mint,
		Name:        m.Name,
		Description: m.Description,
		BlinkType:   m.BlinkType,
		IsNFT:       m.IsNFT,
		IsDonation:  m.IsDonation,
		IsGift:      m.IsGift,
		IsPayment:   m.IsPayment,
		IsPoll:      m.IsPoll,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	})
}

// EncodeCompressedNft returns the account data of the given compressed NFT.
func EncodeCompressedNft(m *model.CompressedNft) ([]byte, error) {
	payload, err := compressedNft(m)
	if err != nil {
		return nil, err
	}
	return encode("CompressedNft", CompressedNftSpace, payload)
}

// LeafHash returns the keccak-256 hash of the Borsh form of the compressed NFT.
// The discriminator is not part of the hashed payload.
func LeafHash(m *model.CompressedNft) ([32]byte, error) {
	var leaf [32]byte

	payload, err := compressedNft(m)
	if err != nil {
		return leaf, err
	}

	data, err := borsh.Serialize(payload)
	if err != nil {
		return leaf, errors.Wrap(regerror.ErrAccountDidNotSerialize, err.Error())
	}

	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	copy(leaf[:], h.Sum(nil))
	return leaf, nil
}

func compressedNft(m *model.CompressedNft) (compressedNftAccount, error) {
	owner, err := ParseAddress(m.Owner)
	if err != nil {
		return compressedNftAccount{}, errors.Wrap(err, "owner")
	}
	tree, err := ParseAddress(m.TreeID)
	if err != nil {
		return compressedNftAccount{}, errors.Wrap(err, "tree")
	}
	return compressedNftAccount{
		Owner:                owner,
		Name:                 m.Name,
		Symbol:               m.Symbol,
		URI:                  m.URI,
		SellerFeeBasisPoints: m.SellerFeeBasisPoints,
		PrimarySaleHappened:  m.PrimarySaleHappened,
		IsMutable:            m.IsMutable,
		TreeID:               tree,
		LeafID:               m.LeafID,
	}, nil
}

func encode(name string, space int, v any) ([]byte, error) {
	payload, err := borsh.Serialize(v)
	if err != nil {
		return nil, errors.Wrap(regerror.ErrAccountDidNotSerialize, err.Error())
	}

	if DiscriminatorSize+len(payload) > space {
		return nil, regerror.ErrAccountDidNotSerialize
	}

	d := Discriminator(name)
	data := make([]byte, 0, space)
	data = append(data, d[:]...)
	return append(data, payload...), nil
}
