package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mdouchement/blinkreg/internal/compression"
	"github.com/mdouchement/blinkreg/pkg/libreg"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
)

// A Session runs blinkctl commands against a blinkreg server.
type Session struct {
	client  libreg.Client
	out     io.Writer
	verbose bool
}

// Open loads the stored credentials and returns a Session printing on stdout.
func Open(verbose bool) (*Session, error) {
	cfg, err := Load()
	if err != nil {
		return nil, errors.Wrap(err, "could not load config")
	}

	client, err := cfg.Client()
	if err != nil {
		return nil, err
	}
	return NewSession(client, os.Stdout, verbose), nil
}

// NewSession returns a Session using the given client.
// Verbose sessions dump full Go values instead of JSON.
func NewSession(client libreg.Client, out io.Writer, verbose bool) *Session {
	return &Session{
		client:  client,
		out:     out,
		verbose: verbose,
	}
}

// CreateBlink creates a blink owned by the signer.
func (s *Session) CreateBlink(params libreg.CreateBlink) error {
	blink, err := s.client.CreateBlink(params)
	if err != nil {
		return errors.Wrap(err, "could not create blink")
	}
	return s.render(blink)
}

// ShowBlink prints the blink stored at the given address.
func (s *Session) ShowBlink(address string) error {
	blink, err := s.client.GetBlink(address)
	if err != nil {
		return errors.Wrap(err, "could not get blink")
	}
	return s.render(blink)
}

// ListBlinks prints the blinks of owner, the signer ones when owner is empty.
func (s *Session) ListBlinks(owner string) error {
	blinks, err := s.client.ListBlinks(s.owner(owner))
	if err != nil {
		return errors.Wrap(err, "could not list blinks")
	}
	return s.render(blinks)
}

// UpdateBlink overwrites the given fields of the blink.
func (s *Session) UpdateBlink(address string, params libreg.UpdateBlink) error {
	blink, err := s.client.UpdateBlink(address, params)
	if err != nil {
		return errors.Wrap(err, "could not update blink")
	}
	return s.render(blink)
}

// DeleteBlink closes the blink.
func (s *Session) DeleteBlink(address string) error {
	if err := s.client.DeleteBlink(address); err != nil {
		return errors.Wrap(err, "could not delete blink")
	}
	fmt.Fprintln(s.out, "Blink deleted:", address)
	return nil
}

// InitTree creates a Merkle tree whose authority is the signer.
func (s *Session) InitTree(params libreg.InitTree) error {
	tree, err := s.client.InitTree(params)
	if err != nil {
		return errors.Wrap(err, "could not init tree")
	}
	return s.render(tree)
}

// ShowTree prints the tree stored at the given address.
func (s *Session) ShowTree(address string) error {
	tree, err := s.client.GetTree(address)
	if err != nil {
		return errors.Wrap(err, "could not get tree")
	}
	return s.render(tree)
}

// Proof prints the proof of the leaf at index once checked against the tree root.
func (s *Session) Proof(address string, index uint32) error {
	proof, err := s.client.GetProof(address, index)
	if err != nil {
		return errors.Wrap(err, "could not get proof")
	}

	if err = VerifyProof(proof); err != nil {
		return err
	}
	return s.render(proof)
}

// ChangeLog prints the change log entries of the tree above the given sequence.
func (s *Session) ChangeLog(address string, since uint64) error {
	entries, err := s.client.GetChangeLog(address, since)
	if err != nil {
		return errors.Wrap(err, "could not get change log")
	}
	return s.render(entries)
}

// MintCompressedNft mints a compressed NFT owned by the signer.
func (s *Session) MintCompressedNft(params libreg.CreateCompressedNft) error {
	nft, err := s.client.CreateCompressedNft(params)
	if err != nil {
		return errors.Wrap(err, "could not mint compressed nft")
	}
	return s.render(nft)
}

// ShowCompressedNft prints the compressed NFT stored at the given address.
func (s *Session) ShowCompressedNft(address string) error {
	nft, err := s.client.GetCompressedNft(address)
	if err != nil {
		return errors.Wrap(err, "could not get compressed nft")
	}
	return s.render(nft)
}

// ListCompressedNfts prints the compressed NFTs of owner, the signer ones when owner is empty.
func (s *Session) ListCompressedNfts(owner string) error {
	nfts, err := s.client.ListCompressedNfts(s.owner(owner))
	if err != nil {
		return errors.Wrap(err, "could not list compressed nfts")
	}
	return s.render(nfts)
}

// TransferCompressedNft gives the compressed NFT to the recipient.
func (s *Session) TransferCompressedNft(address, recipient string) error {
	nft, err := s.client.TransferCompressedNft(address, recipient)
	if err != nil {
		return errors.Wrap(err, "could not transfer compressed nft")
	}
	return s.render(nft)
}

// BurnCompressedNft burns the compressed NFT.
func (s *Session) BurnCompressedNft(address string) error {
	if err := s.client.BurnCompressedNft(address); err != nil {
		return errors.Wrap(err, "could not burn compressed nft")
	}
	fmt.Fprintln(s.out, "Compressed NFT burned:", address)
	return nil
}

// Wallet prints the deposits of address, the signer ones when address is empty.
func (s *Session) Wallet(address string) error {
	wallet, err := s.client.GetWallet(s.owner(address))
	if err != nil {
		return errors.Wrap(err, "could not get wallet")
	}
	return s.render(wallet)
}

// Backup fetchs all the signer's accounts and store them in the given directory.
func (s *Session) Backup(dir string) (string, error) {
	var backup struct {
		Signer         string                 `json:"signer"`
		Wallet         *libreg.Wallet         `json:"wallet"`
		Blinks         []libreg.Blink         `json:"blinks"`
		CompressedNfts []libreg.CompressedNft `json:"cnfts"`
	}
	backup.Signer = s.client.Signer()

	var err error
	backup.Wallet, err = s.client.GetWallet(backup.Signer)
	if err != nil {
		return "", errors.Wrap(err, "could not get wallet")
	}

	backup.Blinks, err = s.client.ListBlinks(backup.Signer)
	if err != nil {
		return "", errors.Wrap(err, "could not list blinks")
	}

	backup.CompressedNfts, err = s.client.ListCompressedNfts(backup.Signer)
	if err != nil {
		return "", errors.Wrap(err, "could not list compressed nfts")
	}

	filename := filepath.Join(dir, fmt.Sprintf("accounts_%s.json", time.Now().Format("20060102150405")))
	return filename, errors.Wrap(writeJSON(backup, filename), "accounts")
}

func (s *Session) owner(address string) string {
	if address == "" {
		return s.client.Signer()
	}
	return address
}

func (s *Session) render(v any) error {
	if s.verbose {
		_, err := fmt.Fprintln(s.out, litter.Sdump(v))
		return err
	}

	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not serialize value")
	}
	_, err = fmt.Fprintln(s.out, string(payload))
	return err
}

// VerifyProof checks the proof nodes against the returned root.
func VerifyProof(proof *libreg.Proof) error {
	root, err := decodeNode(proof.Root)
	if err != nil {
		return errors.Wrap(err, "root")
	}
	leaf, err := decodeNode(proof.Leaf)
	if err != nil {
		return errors.Wrap(err, "leaf")
	}

	nodes := make([]compression.Node, len(proof.Proof))
	for i, n := range proof.Proof {
		nodes[i], err = decodeNode(n)
		if err != nil {
			return errors.Wrapf(err, "proof node %d", i)
		}
	}

	if !compression.Verify(root, leaf, proof.Index, nodes) {
		return errors.Errorf("proof of leaf %d does not match root %s", proof.Index, proof.Root)
	}
	return nil
}

func decodeNode(s string) (compression.Node, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return compression.Node{}, err
	}
	if len(b) != len(compression.Node{}) {
		return compression.Node{}, errors.Errorf("invalid node length %d", len(b))
	}
	return compression.NodeFromBytes(b), nil
}

func writeJSON(v any, filename string) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not serialize value to backup")
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "could not create backup file")
	}
	defer f.Close()

	_, err = f.Write(payload)
	if err != nil {
		return errors.Wrap(err, "could not write backuped values")
	}

	return errors.Wrap(f.Sync(), "could not backup")
}
