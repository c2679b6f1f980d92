package service

import (
	"github.com/mdouchement/blinkreg/internal/compression"
	"github.com/mdouchement/blinkreg/internal/database"
	"github.com/mdouchement/blinkreg/internal/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultMaxBufferSize is the change log buffer used when none is requested.
const DefaultMaxBufferSize = 64

type (
	// InitTreeParams are used to create a Merkle tree.
	InitTreeParams struct {
		Params
		Account       string `json:"account"` // Generated when empty
		MaxDepth      uint32 `json:"max_depth"`
		MaxBufferSize uint32 `json:"max_buffer_size"`
		Public        bool   `json:"public"`
	}

	// A TreeService exposes the trees of the compression program.
	TreeService struct {
		db              database.Client
		program         *compression.Program
		defaultMaxDepth uint32
		log             logrus.FieldLogger
	}
)

// NewTreeService returns a new TreeService.
func NewTreeService(db database.Client, program *compression.Program, defaultMaxDepth uint32, logger logrus.FieldLogger) *TreeService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &TreeService{
		db:              db,
		program:         program,
		defaultMaxDepth: defaultMaxDepth,
		log:             logger,
	}
}

// Init creates an empty tree whose authority is the signer.
func (s *TreeService) Init(params InitTreeParams) (*model.Tree, error) {
	account, err := address(params.Account)
	if err != nil {
		return nil, errors.Wrap(err, "account")
	}

	tree := &model.Tree{
		Authority:     params.Signer,
		Public:        params.Public,
		MaxDepth:      params.MaxDepth,
		MaxBufferSize: params.MaxBufferSize,
	}
	tree.ID = account

	if tree.MaxDepth == 0 {
		tree.MaxDepth = s.defaultMaxDepth
	}
	if tree.MaxBufferSize == 0 {
		tree.MaxBufferSize = DefaultMaxBufferSize
	}

	err = s.db.Atomic(func(tx database.Client) error {
		return s.program.InitTree(tx, tree)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"tree":      tree.ID,
		"authority": tree.Authority,
		"max_depth": tree.MaxDepth,
	}).Info("tree created")
	return tree, nil
}

// Get returns the tree stored at the given address.
func (s *TreeService) Get(address string) (*model.Tree, error) {
	tree, err := s.db.FindTree(address)
	if err != nil {
		return nil, notInitialized(s.db, err)
	}
	return tree, nil
}

// Proof returns the inclusion proof of the leaf at index.
func (s *TreeService) Proof(address string, index uint32) (*compression.TreeProof, error) {
	return s.program.Proof(s.db, address, index)
}

// ChangeLog returns the change log entries of the tree above the given sequence.
func (s *TreeService) ChangeLog(address string, since uint64) ([]*model.ChangeLog, error) {
	if _, err := s.Get(address); err != nil {
		return nil, err
	}
	return s.db.FindChangeLogs(address, since)
}

