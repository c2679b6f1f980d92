package layout_test

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mdouchement/blinkreg/internal/layout"
	"github.com/mdouchement/blinkreg/internal/model"
	"github.com/mdouchement/blinkreg/internal/regerror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSpaces(t *testing.T) {
	assert.Equal(t, 375, layout.BlinkSpace)
	assert.Equal(t, 338, layout.CompressedNftSpace)
}

func TestRentExemptMinimum(t *testing.T) {
	assert.Equal(t, uint64(3500880), layout.RentExemptMinimum(layout.BlinkSpace))
	assert.Equal(t, uint64(3243360), layout.RentExemptMinimum(layout.CompressedNftSpace))
	assert.Equal(t, uint64(890880), layout.RentExemptMinimum(0))
}

func TestDiscriminator(t *testing.T) {
	assert.Equal(t, layout.Discriminator("Blink"), layout.Discriminator("Blink"))
	assert.NotEqual(t, layout.Discriminator("Blink"), layout.Discriminator("CompressedNft"))
}

func TestParseAddress(t *testing.T) {
	account := types.NewAccount()

	pk, err := layout.ParseAddress(account.PublicKey.ToBase58())
	assert.NoError(t, err)
	assert.Equal(t, account.PublicKey, pk)

	_, err = layout.ParseAddress("not-base58-0OIl")
	assert.Equal(t, regerror.ErrInvalidAddress, err)

	_, err = layout.ParseAddress("3yZe7d")
	assert.Equal(t, regerror.ErrInvalidAddress, err)
}

func TestEncodeBlink(t *testing.T) {
	owner := types.NewAccount().PublicKey
	mint := types.NewAccount().PublicKey

	blink := &model.Blink{
		Owner:       owner.ToBase58(),
		Mint:        mint.ToBase58(),
		Name:        "name",
		Description: "description",
		BlinkType:   model.BlinkTypePremium,
		IsPoll:      true,
	}
	blink.CreatedAt = 42
	blink.UpdatedAt = 43

	data, err := layout.EncodeBlink(blink)
	assert.NoError(t, err)

	d := layout.Discriminator("Blink")
	assert.Equal(t, d[:], data[:8])
	assert.Equal(t, owner[:], data[8:40])
	assert.Equal(t, mint[:], data[40:72])
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(data[72:76]))
	assert.Equal(t, "name", string(data[76:80]))
	assert.Equal(t, 8+32+32+(4+4)+(4+11)+(4+7)+5+8+8, len(data))

	// Trailing timestamps.
	assert.Equal(t, uint64(43), binary.LittleEndian.Uint64(data[len(data)-8:]))
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(data[len(data)-16:len(data)-8]))
}

func TestEncodeBlink_Overflow(t *testing.T) {
	blink := &model.Blink{
		Owner:       types.NewAccount().PublicKey.ToBase58(),
		Mint:        types.NewAccount().PublicKey.ToBase58(),
		Name:        strings.Repeat("é", 50), // 100 bytes
		Description: strings.Repeat("d", 200),
		BlinkType:   model.BlinkTypeStandard,
	}

	_, err := layout.EncodeBlink(blink)
	assert.Equal(t, regerror.ErrAccountDidNotSerialize, errors.Cause(err))

	blink.Name = strings.Repeat("n", 50)
	data, err := layout.EncodeBlink(blink)
	assert.NoError(t, err)
	assert.LessOrEqual(t, len(data), layout.BlinkSpace)
}

func TestEncodeBlink_InvalidOwner(t *testing.T) {
	_, err := layout.EncodeBlink(&model.Blink{Owner: "nope", Mint: types.NewAccount().PublicKey.ToBase58()})
	assert.Equal(t, regerror.ErrInvalidAddress, errors.Cause(err))
}

func TestEncodeCompressedNft(t *testing.T) {
	nft := &model.CompressedNft{
		Owner:                types.NewAccount().PublicKey.ToBase58(),
		Name:                 strings.Repeat("n", 32),
		Symbol:               strings.Repeat("s", 10),
		URI:                  strings.Repeat("u", 200),
		SellerFeeBasisPoints: 10000,
		IsMutable:            true,
		TreeID:               types.NewAccount().PublicKey.ToBase58(),
	}

	data, err := layout.EncodeCompressedNft(nft)
	assert.NoError(t, err)
	assert.Equal(t, layout.CompressedNftSpace, len(data))
}

func TestLeafHash(t *testing.T) {
	nft := &model.CompressedNft{
		Owner:     types.NewAccount().PublicKey.ToBase58(),
		Name:      "name",
		Symbol:    "SYM",
		URI:       "https://arweave.net/xyz",
		IsMutable: true,
		TreeID:    types.NewAccount().PublicKey.ToBase58(),
	}

	h1, err := layout.LeafHash(nft)
	assert.NoError(t, err)
	h2, err := layout.LeafHash(nft)
	assert.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, [32]byte{}, h1)

	nft.Owner = types.NewAccount().PublicKey.ToBase58()
	h3, err := layout.LeafHash(nft)
	assert.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestEncodeBlink_MultibyteWithinSpace(t *testing.T) {
	blink := &model.Blink{
		Owner:     types.NewAccount().PublicKey.ToBase58(),
		Mint:      types.NewAccount().PublicKey.ToBase58(),
		Name:      strings.Repeat("é", 26), // 52 bytes
		BlinkType: strings.Repeat("t", 21),
	}

	data, err := layout.EncodeBlink(blink)
	assert.NoError(t, err)
	assert.Equal(t, uint32(52), binary.LittleEndian.Uint32(data[72:76]))
	assert.LessOrEqual(t, len(data), layout.BlinkSpace)
}

func TestEncodeCompressedNft_Overflow(t *testing.T) {
	nft := &model.CompressedNft{
		Owner:  types.NewAccount().PublicKey.ToBase58(),
		Name:   strings.Repeat("é", 17), // 34 bytes
		TreeID: types.NewAccount().PublicKey.ToBase58(),
	}

	_, err := layout.EncodeCompressedNft(nft)
	assert.NoError(t, err)

	nft.URI = strings.Repeat("u", 200)
	nft.Symbol = strings.Repeat("s", 10)
	_, err = layout.EncodeCompressedNft(nft)
	assert.Equal(t, regerror.ErrAccountDidNotSerialize, errors.Cause(err))

	_, err = layout.LeafHash(nft)
	assert.NoError(t, err)
}
