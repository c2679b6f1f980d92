package libreg

import (
	"crypto/ed25519"
	"encoding/json"
	"os"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/pkg/errors"
)

// ParseKeypair parses a keypair in Solana CLI format (a JSON array of the 64 secret key bytes).
func ParseKeypair(data []byte) (types.Account, error) {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return types.Account{}, errors.Wrap(err, "could not parse keypair")
	}

	key := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return types.Account{}, errors.Errorf("invalid keypair byte at %d", i)
		}
		key[i] = byte(v)
	}

	if len(key) != ed25519.PrivateKeySize {
		return types.Account{}, errors.Errorf("invalid keypair length %d", len(key))
	}

	account, err := types.AccountFromBytes(key)
	return account, errors.Wrap(err, "invalid keypair")
}

// LoadKeypair reads a keypair file in Solana CLI format.
func LoadKeypair(filename string) (types.Account, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return types.Account{}, errors.Wrap(err, "could not read keypair")
	}
	return ParseKeypair(data)
}

// MarshalKeypair returns the Solana CLI form of the account keypair.
func MarshalKeypair(account types.Account) ([]byte, error) {
	ints := make([]int, len(account.PrivateKey))
	for i, b := range account.PrivateKey {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}
