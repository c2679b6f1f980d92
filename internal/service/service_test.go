package service_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mdouchement/blinkreg/internal/compression"
	"github.com/mdouchement/blinkreg/internal/database"
	"github.com/mdouchement/blinkreg/internal/service"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type clock struct {
	unix int64
}

func (c *clock) Now() time.Time {
	return time.Unix(c.unix, 0)
}

func (c *clock) advance(seconds int64) {
	c.unix += seconds
}

type mints struct {
	err error
}

func (m mints) VerifyMint(context.Context, string) error {
	return m.err
}

type env struct {
	db      database.Client
	clock   *clock
	program *compression.Program
	cfg     service.Config
}

func setup(t *testing.T, strictReplace bool) *env {
	db, err := database.StormOpen(filepath.Join(t.TempDir(), "blinkreg.db"), database.StormCodec)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c := &clock{unix: 1700000000}
	program := compression.New(compression.Config{
		StrictReplace: strictReplace,
		Clock:         c.Now,
		Logger:        logger,
	})

	return &env{
		db:      db,
		clock:   c,
		program: program,
		cfg: service.Config{
			StrictTypes: true,
			Compression: program,
			Clock:       c.Now,
			Logger:      logger,
		},
	}
}

func (e *env) tree(t *testing.T, authority string, depth uint32) string {
	trees := service.NewTreeService(e.db, e.program, 14, e.cfg.Logger)
	tree, err := trees.Init(service.InitTreeParams{
		Params:   service.Params{Signer: authority},
		MaxDepth: depth,
	})
	if err != nil {
		t.Fatal(err)
	}
	return tree.ID
}

func address() string {
	return types.NewAccount().PublicKey.ToBase58()
}

func cause(err error) error {
	return errors.Cause(err)
}
