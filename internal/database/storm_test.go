package database_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mdouchement/blinkreg/internal/database"
	"github.com/mdouchement/blinkreg/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func open(t *testing.T) database.Client {
	filename := filepath.Join(t.TempDir(), "blinkreg.db")

	db, err := database.StormOpen(filename, database.StormCodec)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
		os.RemoveAll(filename)
	})
	return db
}

func TestAtomic_Commit(t *testing.T) {
	db := open(t)

	err := db.Atomic(func(tx database.Client) error {
		blink := &model.Blink{Owner: "owner", Name: "committed"}
		blink.ID = "blink1"
		return tx.Save(blink)
	})
	assert.NoError(t, err)

	blink, err := db.FindBlink("blink1")
	assert.NoError(t, err)
	assert.Equal(t, "committed", blink.Name)
}

func TestAtomic_Rollback(t *testing.T) {
	db := open(t)
	boom := errors.New("boom")

	err := db.Atomic(func(tx database.Client) error {
		blink := &model.Blink{Owner: "owner", Name: "rolled back"}
		blink.ID = "blink1"
		if err := tx.Save(blink); err != nil {
			return err
		}

		wallet := &model.Wallet{Locked: 42}
		wallet.ID = "owner"
		if err := tx.Save(wallet); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, boom, err)

	_, err = db.FindBlink("blink1")
	assert.True(t, db.IsNotFound(err))
	_, err = db.FindWallet("owner")
	assert.True(t, db.IsNotFound(err))
}

func TestAtomic_Nested(t *testing.T) {
	db := open(t)

	err := db.Atomic(func(tx database.Client) error {
		return tx.Atomic(func(tx database.Client) error {
			tree := &model.Tree{Authority: "authority"}
			tree.ID = "tree1"
			return tx.Save(tree)
		})
	})
	assert.NoError(t, err)

	exists, err := db.AccountExists("tree1")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestSave_WithoutAddress(t *testing.T) {
	db := open(t)
	assert.Error(t, db.Save(&model.Blink{}))
}

func TestAccountExists(t *testing.T) {
	db := open(t)

	exists, err := db.AccountExists("nothing")
	assert.NoError(t, err)
	assert.False(t, exists)

	nft := &model.CompressedNft{Owner: "owner"}
	nft.ID = "nft1"
	assert.NoError(t, db.Save(nft))

	exists, err = db.AccountExists("nft1")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestFindByOwner(t *testing.T) {
	db := open(t)

	for i, id := range []string{"b2", "b1", "b3"} {
		blink := &model.Blink{Owner: "alice"}
		blink.ID = id
		blink.CreatedAt = int64(10 - i)
		assert.NoError(t, db.Save(blink))
	}
	other := &model.Blink{Owner: "bob"}
	other.ID = "b4"
	assert.NoError(t, db.Save(other))

	blinks, err := db.FindBlinksByOwner("alice")
	assert.NoError(t, err)
	if assert.Len(t, blinks, 3) {
		assert.Equal(t, "b3", blinks[0].ID)
		assert.Equal(t, "b1", blinks[1].ID)
		assert.Equal(t, "b2", blinks[2].ID)
	}

	nfts, err := db.FindCompressedNftsByOwner("alice")
	assert.NoError(t, err)
	assert.Empty(t, nfts)
}

func TestChangeLogs(t *testing.T) {
	db := open(t)

	for seq := uint64(1); seq <= 5; seq++ {
		assert.NoError(t, db.AppendChangeLog(&model.ChangeLog{TreeID: "tree1", Sequence: seq, Kind: model.ChangeAppend}))
	}
	assert.NoError(t, db.AppendChangeLog(&model.ChangeLog{TreeID: "tree2", Sequence: 1, Kind: model.ChangeAppend}))

	entries, err := db.FindChangeLogs("tree1", 2)
	assert.NoError(t, err)
	if assert.Len(t, entries, 3) {
		assert.Equal(t, uint64(3), entries[0].Sequence)
		assert.Equal(t, uint64(5), entries[2].Sequence)
	}

	assert.NoError(t, db.PruneChangeLogs("tree1", 4))
	entries, err = db.FindChangeLogs("tree1", 0)
	assert.NoError(t, err)
	if assert.Len(t, entries, 2) {
		assert.Equal(t, uint64(4), entries[0].Sequence)
	}

	entries, err = db.FindChangeLogs("tree2", 0)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.NoError(t, db.PruneChangeLogs("unknown", 10))
}
