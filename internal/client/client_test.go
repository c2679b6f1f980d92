package client

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mdouchement/blinkreg/internal/database"
	"github.com/mdouchement/blinkreg/internal/server"
	"github.com/mdouchement/blinkreg/pkg/libreg"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"
)

func serve(t *testing.T) string {
	db, err := database.StormOpen(filepath.Join(t.TempDir(), "blinkreg.db"), database.StormCodec)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ts := httptest.NewServer(server.EchoEngine(server.Controller{
		Version:         "test",
		Database:        db,
		Logger:          logger,
		MaxClockSkew:    time.Minute,
		StrictTypes:     true,
		DefaultMaxDepth: 5,
	}))
	t.Cleanup(ts.Close)
	return ts.URL
}

func session(t *testing.T, endpoint string, signer types.Account) (*Session, *bytes.Buffer) {
	client, err := libreg.NewDefaultClient(endpoint, &signer)
	if err != nil {
		t.Fatal(err)
	}

	var b bytes.Buffer
	return NewSession(client, &b, false), &b
}

func TestSession(t *testing.T) {
	endpoint := serve(t)
	signer := types.NewAccount()
	s, out := session(t, endpoint, signer)

	err := s.CreateBlink(libreg.CreateBlink{
		Mint:       types.NewAccount().PublicKey.ToBase58(),
		Name:       "Coffee tip",
		BlinkType:  "standard",
		IsDonation: true,
	})
	assert.NoError(t, err)

	v, err := fastjson.ParseBytes(out.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, signer.PublicKey.ToBase58(), string(v.GetStringBytes("owner")))
	assert.True(t, v.GetBool("is_donation"))
	blink := string(v.GetStringBytes("address"))

	out.Reset()
	assert.NoError(t, s.ListBlinks(""))
	v, err = fastjson.ParseBytes(out.Bytes())
	assert.NoError(t, err)
	assert.Len(t, v.GetArray(), 1)

	out.Reset()
	err = s.InitTree(libreg.InitTree{MaxDepth: 3})
	assert.NoError(t, err)
	v, err = fastjson.ParseBytes(out.Bytes())
	assert.NoError(t, err)
	tree := string(v.GetStringBytes("address"))

	for i := 0; i < 3; i++ {
		err = s.MintCompressedNft(libreg.CreateCompressedNft{MerkleTree: tree, Name: "Ticket", Symbol: "TCK"})
		assert.NoError(t, err)
	}

	for i := uint32(0); i < 3; i++ {
		assert.NoError(t, s.Proof(tree, i))
	}

	out.Reset()
	assert.NoError(t, s.ChangeLog(tree, 1))
	v, err = fastjson.ParseBytes(out.Bytes())
	assert.NoError(t, err)
	assert.Len(t, v.GetArray(), 2)

	dir := t.TempDir()
	filename, err := s.Backup(dir)
	assert.NoError(t, err)

	payload, err := os.ReadFile(filename)
	assert.NoError(t, err)
	v, err = fastjson.ParseBytes(payload)
	assert.NoError(t, err)
	assert.Equal(t, signer.PublicKey.ToBase58(), string(v.GetStringBytes("signer")))
	assert.Len(t, v.GetArray("blinks"), 1)
	assert.Len(t, v.GetArray("cnfts"), 3)
	assert.NotZero(t, v.GetUint64("wallet", "locked"))

	out.Reset()
	assert.NoError(t, s.DeleteBlink(blink))
	assert.Equal(t, "Blink deleted: "+blink+"\n", out.String())

	err = s.ShowBlink(blink)
	if assert.Error(t, err) {
		rerr, ok := errors.Cause(err).(*libreg.Error)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusNotFound, rerr.StatusCode)
			assert.Equal(t, "AccountNotInitialized", rerr.Err.Tag)
		}
	}
}

func TestSession_Verbose(t *testing.T) {
	endpoint := serve(t)
	s, out := session(t, endpoint, types.NewAccount())
	s.verbose = true

	assert.NoError(t, s.Wallet(""))
	assert.Contains(t, out.String(), "libreg.Wallet{")
}

func TestVerifyProof(t *testing.T) {
	endpoint := serve(t)
	signer := types.NewAccount()
	client, err := libreg.NewDefaultClient(endpoint, &signer)
	assert.NoError(t, err)

	tree, err := client.InitTree(libreg.InitTree{MaxDepth: 2})
	assert.NoError(t, err)
	_, err = client.CreateCompressedNft(libreg.CreateCompressedNft{MerkleTree: tree.Address, Name: "Ticket"})
	assert.NoError(t, err)

	proof, err := client.GetProof(tree.Address, 0)
	assert.NoError(t, err)
	assert.NoError(t, VerifyProof(proof))

	proof.Index = 1
	assert.Error(t, VerifyProof(proof))

	proof.Index = 0
	proof.Leaf = "leaf"
	assert.Error(t, VerifyProof(proof))
}
