package database

import (
	"github.com/mdouchement/blinkreg/internal/model"
)

type (
	// A Client can interacts with the ledger database.
	// A Client returned by Atomic is bound to a read/write transaction.
	Client interface {
		// Save inserts or updates the account in database with the given model.
		Save(m model.Model) error
		// Delete deletes the account in database with the given model.
		Delete(m model.Model) error
		// Atomic runs fn inside a read/write transaction.
		// The transaction is committed when fn returns nil and rolled back otherwise.
		Atomic(fn func(tx Client) error) error
		// AccountExists returns true if any account is stored at the given address.
		AccountExists(address string) (bool, error)
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool

		BlinkInteraction
		CompressedNftInteraction
		TreeInteraction
		WalletInteraction
	}

	// A BlinkInteraction defines all the methods used to interact with a blink account.
	BlinkInteraction interface {
		// FindBlink returns the blink for the given address.
		FindBlink(address string) (*model.Blink, error)
		// FindBlinksByOwner returns all the blinks owned by the given address.
		FindBlinksByOwner(owner string) ([]*model.Blink, error)
	}

	// A CompressedNftInteraction defines all the methods used to interact with a compressed NFT account.
	CompressedNftInteraction interface {
		// FindCompressedNft returns the compressed NFT for the given address.
		FindCompressedNft(address string) (*model.CompressedNft, error)
		// FindCompressedNftsByOwner returns all the compressed NFTs owned by the given address.
		FindCompressedNftsByOwner(owner string) ([]*model.CompressedNft, error)
	}

	// A TreeInteraction defines all the methods used to interact with Merkle tree accounts and their change logs.
	TreeInteraction interface {
		// FindTree returns the tree for the given address.
		FindTree(address string) (*model.Tree, error)
		// AppendChangeLog stores a new change log entry.
		AppendChangeLog(entry *model.ChangeLog) error
		// FindChangeLogs returns the entries of the given tree with a sequence strictly greater than since.
		FindChangeLogs(treeID string, since uint64) ([]*model.ChangeLog, error)
		// PruneChangeLogs removes the entries of the given tree with a sequence strictly lower than before.
		PruneChangeLogs(treeID string, before uint64) error
	}

	// A WalletInteraction defines all the methods used to interact with the deposit ledger.
	WalletInteraction interface {
		// FindWallet returns the wallet for the given address.
		FindWallet(address string) (*model.Wallet, error)
	}
)
