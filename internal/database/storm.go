package database

import (
	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/asdine/storm/v3/q"
	"github.com/mdouchement/blinkreg/internal/model"
	"github.com/pkg/errors"
)

type strm struct {
	db   *storm.DB
	node storm.Node
	tx   bool
}

// StormCodec is the default format used to store data in the database.
var StormCodec codec.MarshalUnmarshaler = msgpack.Codec

var models = []any{
	&model.Blink{},
	&model.CompressedNft{},
	&model.Tree{},
	&model.ChangeLog{},
	&model.Wallet{},
}

// StormInit initializes Storm database.
func StormInit(database string, c codec.MarshalUnmarshaler) error {
	db, err := storm.Open(database, storm.Codec(c))
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	for _, m := range models {
		if err := db.Init(m); err != nil {
			return errors.Wrapf(err, "could not init %T index", m)
		}
	}
	return nil
}

// StormReIndex reindex Storm database.
func StormReIndex(database string, c codec.MarshalUnmarshaler) error {
	db, err := storm.Open(database, storm.Codec(c))
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	for _, m := range models {
		if err := db.ReIndex(m); err != nil {
			return errors.Wrapf(err, "could not ReIndex %T", m)
		}
	}
	return nil
}

// StormOpen returns a new Storm database connection.
func StormOpen(database string, c codec.MarshalUnmarshaler) (Client, error) {
	db, err := storm.Open(database, storm.Codec(c))
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db:   db,
		node: db,
	}, nil
}

// Save inserts or updates the account in database with the given model.
func (c *strm) Save(m model.Model) error {
	if m.GetID() == "" {
		return errors.New("could not save a model without address")
	}
	return errors.Wrap(c.node.Save(m), "could not save the model")
}

// Delete deletes the account in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.node.DeleteStruct(m), "could not delete the model")
}

// Atomic runs fn inside a read/write transaction.
func (c *strm) Atomic(fn func(tx Client) error) error {
	if c.tx {
		return fn(c)
	}

	node, err := c.node.Begin(true)
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}
	defer node.Rollback() // nolint:errcheck

	if err = fn(&strm{node: node, tx: true}); err != nil {
		return err
	}
	return errors.Wrap(node.Commit(), "could not commit transaction")
}

// AccountExists returns true if any account is stored at the given address.
func (c *strm) AccountExists(address string) (bool, error) {
	for _, m := range []any{&model.Blink{}, &model.CompressedNft{}, &model.Tree{}} {
		err := c.node.One("ID", address, m)
		if err == nil {
			return true, nil
		}
		if !c.IsNotFound(err) {
			return false, errors.Wrap(err, "could not check account")
		}
	}
	return false, nil
}

// Close the database.
func (c *strm) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// FindBlink returns the blink for the given address.
func (c *strm) FindBlink(address string) (*model.Blink, error) {
	var blink model.Blink
	if err := c.node.One("ID", address, &blink); err != nil {
		return nil, errors.Wrap(err, "find blink by address")
	}
	return &blink, nil
}

// FindBlinksByOwner returns all the blinks owned by the given address.
func (c *strm) FindBlinksByOwner(owner string) ([]*model.Blink, error) {
	blinks := make([]*model.Blink, 0)
	err := c.node.Select(q.Eq("Owner", owner)).OrderBy("CreatedAt").Find(&blinks)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find blinks by owner")
	}
	return blinks, nil
}

// FindCompressedNft returns the compressed NFT for the given address.
func (c *strm) FindCompressedNft(address string) (*model.CompressedNft, error) {
	var nft model.CompressedNft
	if err := c.node.One("ID", address, &nft); err != nil {
		return nil, errors.Wrap(err, "find compressed nft by address")
	}
	return &nft, nil
}

// FindCompressedNftsByOwner returns all the compressed NFTs owned by the given address.
func (c *strm) FindCompressedNftsByOwner(owner string) ([]*model.CompressedNft, error) {
	nfts := make([]*model.CompressedNft, 0)
	err := c.node.Select(q.Eq("Owner", owner)).OrderBy("CreatedAt").Find(&nfts)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find compressed nfts by owner")
	}
	return nfts, nil
}

// FindTree returns the tree for the given address.
func (c *strm) FindTree(address string) (*model.Tree, error) {
	var tree model.Tree
	if err := c.node.One("ID", address, &tree); err != nil {
		return nil, errors.Wrap(err, "find tree by address")
	}
	return &tree, nil
}

// AppendChangeLog stores a new change log entry.
func (c *strm) AppendChangeLog(entry *model.ChangeLog) error {
	return errors.Wrap(c.node.Save(entry), "could not save change log")
}

// FindChangeLogs returns the entries of the given tree with a sequence strictly greater than since.
func (c *strm) FindChangeLogs(treeID string, since uint64) ([]*model.ChangeLog, error) {
	entries := make([]*model.ChangeLog, 0)
	err := c.node.Select(q.Eq("TreeID", treeID), q.Gt("Sequence", since)).OrderBy("Sequence").Find(&entries)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find change logs")
	}
	return entries, nil
}

// PruneChangeLogs removes the entries of the given tree with a sequence strictly lower than before.
func (c *strm) PruneChangeLogs(treeID string, before uint64) error {
	err := c.node.Select(q.Eq("TreeID", treeID), q.Lt("Sequence", before)).Delete(&model.ChangeLog{})
	if err != nil && !c.IsNotFound(err) {
		return errors.Wrap(err, "could not prune change logs")
	}
	return nil
}

// FindWallet returns the wallet for the given address.
func (c *strm) FindWallet(address string) (*model.Wallet, error) {
	var wallet model.Wallet
	if err := c.node.One("ID", address, &wallet); err != nil {
		return nil, errors.Wrap(err, "find wallet by address")
	}
	return &wallet, nil
}
