// Package compression implements the account compression program.
//
// The program owns concurrent Merkle tree accounts. Registries call it
// synchronously from inside their own ledger transaction, so any failure
// here rolls back the caller's whole operation.
package compression

import (
	"time"

	"github.com/mdouchement/blinkreg/internal/database"
	"github.com/mdouchement/blinkreg/internal/model"
	"github.com/mdouchement/blinkreg/internal/regerror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MaxBufferSize is the largest change log buffer the program accepts.
const MaxBufferSize = 2048

type (
	// A Config holds the program settings.
	Config struct {
		// StrictReplace rejects replacements whose previous leaf differs from the stored one.
		StrictReplace bool
		Clock         func() time.Time
		Logger        logrus.FieldLogger
	}

	// A Program is the compression program.
	Program struct {
		strictReplace bool
		now           func() time.Time
		log           logrus.FieldLogger
	}

	// A TreeProof is the inclusion proof of a leaf.
	TreeProof struct {
		Root  Node
		Leaf  Node
		Index uint32
		Proof []Node
	}
)

// New returns a new Program.
func New(cfg Config) *Program {
	p := &Program{
		strictReplace: cfg.StrictReplace,
		now:           cfg.Clock,
		log:           cfg.Logger,
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}
	return p
}

// InitTree initializes an empty tree account.
func (p *Program) InitTree(db database.Client, tree *model.Tree) error {
	if tree.MaxDepth < 1 || tree.MaxDepth > MaxDepth {
		return regerror.ErrInvalidTreeConfig
	}
	if tree.MaxBufferSize < 1 || tree.MaxBufferSize > MaxBufferSize {
		return regerror.ErrInvalidTreeConfig
	}

	exists, err := db.AccountExists(tree.ID)
	if err != nil {
		return err
	}
	if exists {
		return regerror.ErrAccountAlreadyInUse
	}

	root := Empty(tree.MaxDepth)
	now := p.now().Unix()
	tree.SetCreatedAt(now)
	tree.SetUpdatedAt(now)
	tree.Sequence = 0
	tree.RightmostIndex = 0
	tree.Leaves = nil
	tree.Root = root[:]

	return errors.Wrap(db.Save(tree), "could not init tree")
}

// AddLeaf appends leaf to the tree and returns its index.
func (p *Program) AddLeaf(db database.Client, treeID, authority string, leaf Node) (uint32, error) {
	tree, err := p.load(db, treeID, authority)
	if err != nil {
		return 0, err
	}

	if uint64(tree.RightmostIndex) >= tree.Capacity() {
		return 0, regerror.ErrTreeFull
	}

	index := tree.RightmostIndex
	tree.Leaves = append(tree.Leaves, append([]byte(nil), leaf[:]...))
	tree.RightmostIndex++

	return index, p.commit(db, tree, model.ChangeAppend, index, leaf)
}

// ReplaceLeaf replaces the leaf stored at index.
func (p *Program) ReplaceLeaf(db database.Client, treeID, authority string, index uint32, previous, leaf Node) error {
	tree, err := p.load(db, treeID, authority)
	if err != nil {
		return err
	}

	if index >= tree.RightmostIndex {
		return regerror.ErrLeafIndexOutOfBounds
	}

	if p.strictReplace && NodeFromBytes(tree.Leaves[index]) != previous {
		return regerror.ErrLeafContentsModified
	}

	tree.Leaves[index] = append([]byte(nil), leaf[:]...)
	return p.commit(db, tree, model.ChangeReplace, index, leaf)
}

// RemoveLeaf replaces the leaf stored at index by an empty node.
func (p *Program) RemoveLeaf(db database.Client, treeID, authority string, index uint32) error {
	tree, err := p.load(db, treeID, authority)
	if err != nil {
		return err
	}

	if index >= tree.RightmostIndex {
		return regerror.ErrLeafIndexOutOfBounds
	}

	tree.Leaves[index] = make([]byte, len(EmptyNode))
	return p.commit(db, tree, model.ChangeRemove, index, EmptyNode)
}

// Proof returns the inclusion proof of the leaf stored at index.
func (p *Program) Proof(db database.Client, treeID string, index uint32) (*TreeProof, error) {
	tree, err := p.find(db, treeID)
	if err != nil {
		return nil, err
	}

	if index >= tree.RightmostIndex {
		return nil, regerror.ErrLeafIndexOutOfBounds
	}

	leaves := nodes(tree.Leaves)
	return &TreeProof{
		Root:  NodeFromBytes(tree.Root),
		Leaf:  leaves[index],
		Index: index,
		Proof: Proof(tree.MaxDepth, leaves, index),
	}, nil
}

func (p *Program) find(db database.Client, treeID string) (*model.Tree, error) {
	tree, err := db.FindTree(treeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, regerror.ErrAccountNotInitialized
		}
		return nil, err
	}
	return tree, nil
}

func (p *Program) load(db database.Client, treeID, authority string) (*model.Tree, error) {
	tree, err := p.find(db, treeID)
	if err != nil {
		return nil, err
	}

	if !tree.Public && tree.Authority != authority {
		return nil, regerror.ErrIncorrectAuthority
	}
	return tree, nil
}

// commit rehashes the appended leaves and saves the whole tree record.
// A write costs O(rightmost_index) whatever the depth; empty subtrees come from Empty.
// TODO: cache the rightmost path once trees grow past a few hundred thousand leaves.
func (p *Program) commit(db database.Client, tree *model.Tree, kind string, index uint32, leaf Node) error {
	root := Root(tree.MaxDepth, nodes(tree.Leaves))
	now := p.now().Unix()

	tree.Sequence++
	tree.Root = root[:]
	tree.SetUpdatedAt(now)
	if err := db.Save(tree); err != nil {
		return errors.Wrap(err, "could not save tree")
	}

	err := db.AppendChangeLog(&model.ChangeLog{
		TreeID:   tree.ID,
		Sequence: tree.Sequence,
		Kind:     kind,
		Index:    index,
		Leaf:     leaf[:],
		Root:     root[:],
		At:       now,
	})
	if err != nil {
		return err
	}

	if tree.Sequence > uint64(tree.MaxBufferSize) {
		if err := db.PruneChangeLogs(tree.ID, tree.Sequence-uint64(tree.MaxBufferSize)+1); err != nil {
			return err
		}
	}

	p.log.WithFields(logrus.Fields{
		"tree":     tree.ID,
		"kind":     kind,
		"index":    index,
		"sequence": tree.Sequence,
	}).Debug("tree changed")
	return nil
}

func nodes(leaves [][]byte) []Node {
	n := make([]Node, len(leaves))
	for i, leaf := range leaves {
		n[i] = NodeFromBytes(leaf)
	}
	return n
}
