package libreg

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/pkg/errors"
)

type (
	// A Client defines all interactions that can be performed on a blinkreg server.
	Client interface {
		// Version returns the version of the blinkreg server.
		Version() (string, error)
		// Signer returns the address used to sign mutating requests.
		Signer() string

		// CreateBlink creates a blink owned by the signer.
		CreateBlink(params CreateBlink) (*Blink, error)
		// GetBlink returns the blink stored at the given address.
		GetBlink(address string) (*Blink, error)
		// ListBlinks returns the blinks owned by the given address.
		ListBlinks(owner string) ([]Blink, error)
		// UpdateBlink overwrites the non-nil fields of the blink.
		UpdateBlink(address string, params UpdateBlink) (*Blink, error)
		// DeleteBlink closes the blink.
		DeleteBlink(address string) error

		// InitTree creates a Merkle tree whose authority is the signer.
		InitTree(params InitTree) (*Tree, error)
		// GetTree returns the tree stored at the given address.
		GetTree(address string) (*Tree, error)
		// GetProof returns the inclusion proof of the leaf at index.
		GetProof(address string, index uint32) (*Proof, error)
		// GetChangeLog returns the change log entries of the tree above the given sequence.
		GetChangeLog(address string, since uint64) ([]ChangeLog, error)

		// CreateCompressedNft mints a compressed NFT owned by the signer.
		CreateCompressedNft(params CreateCompressedNft) (*CompressedNft, error)
		// GetCompressedNft returns the compressed NFT stored at the given address.
		GetCompressedNft(address string) (*CompressedNft, error)
		// ListCompressedNfts returns the compressed NFTs owned by the given address.
		ListCompressedNfts(owner string) ([]CompressedNft, error)
		// TransferCompressedNft gives the compressed NFT to the recipient.
		TransferCompressedNft(address, recipient string) (*CompressedNft, error)
		// BurnCompressedNft burns the compressed NFT.
		BurnCompressedNft(address string) error

		// GetWallet returns the storage deposits of the given address.
		GetWallet(address string) (*Wallet, error)
	}

	p      map[string]any
	client struct {
		http     *http.Client
		endpoint string
		signer   *types.Account
		now      func() time.Time
	}
)

// NewDefaultClient returns a new Client with default HTTP client.
func NewDefaultClient(endpoint string, signer *types.Account) (Client, error) {
	return NewClient(http.DefaultClient, endpoint, signer)
}

// NewClient returns a new Client.
// A nil signer gives a read-only client.
func NewClient(c *http.Client, endpoint string, signer *types.Account) (Client, error) {
	_, err := url.Parse(endpoint)
	return &client{http: c, endpoint: endpoint, signer: signer, now: time.Now}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) Version() (string, error) {
	var v struct {
		Version string `json:"version"`
	}
	err := c.do(http.MethodGet, "/version", nil, nil, &v)
	return v.Version, err
}

func (c *client) Signer() string {
	if c.signer == nil {
		return ""
	}
	return c.signer.PublicKey.ToBase58()
}

func (c *client) CreateBlink(params CreateBlink) (*Blink, error) {
	var blink Blink
	return &blink, c.do(http.MethodPost, "/blinks", nil, params, &blink)
}

func (c *client) GetBlink(address string) (*Blink, error) {
	var blink Blink
	return &blink, c.do(http.MethodGet, path.Join("/blinks", address), nil, nil, &blink)
}

func (c *client) ListBlinks(owner string) ([]Blink, error) {
	var blinks struct {
		Data []Blink `json:"data"`
	}
	err := c.do(http.MethodGet, "/blinks", url.Values{"owner": {owner}}, nil, &blinks)
	return blinks.Data, err
}

func (c *client) UpdateBlink(address string, params UpdateBlink) (*Blink, error) {
	var blink Blink
	return &blink, c.do(http.MethodPatch, path.Join("/blinks", address), nil, params, &blink)
}

func (c *client) DeleteBlink(address string) error {
	return c.do(http.MethodDelete, path.Join("/blinks", address), nil, nil, nil)
}

func (c *client) InitTree(params InitTree) (*Tree, error) {
	var tree Tree
	return &tree, c.do(http.MethodPost, "/trees", nil, params, &tree)
}

func (c *client) GetTree(address string) (*Tree, error) {
	var tree Tree
	return &tree, c.do(http.MethodGet, path.Join("/trees", address), nil, nil, &tree)
}

func (c *client) GetProof(address string, index uint32) (*Proof, error) {
	var proof Proof
	endpoint := path.Join("/trees", address, "proof", strconv.FormatUint(uint64(index), 10))
	return &proof, c.do(http.MethodGet, endpoint, nil, nil, &proof)
}

func (c *client) GetChangeLog(address string, since uint64) ([]ChangeLog, error) {
	var entries struct {
		Data []ChangeLog `json:"data"`
	}
	query := url.Values{"since": {strconv.FormatUint(since, 10)}}
	err := c.do(http.MethodGet, path.Join("/trees", address, "changelog"), query, nil, &entries)
	return entries.Data, err
}

func (c *client) CreateCompressedNft(params CreateCompressedNft) (*CompressedNft, error) {
	var nft CompressedNft
	return &nft, c.do(http.MethodPost, "/cnfts", nil, params, &nft)
}

func (c *client) GetCompressedNft(address string) (*CompressedNft, error) {
	var nft CompressedNft
	return &nft, c.do(http.MethodGet, path.Join("/cnfts", address), nil, nil, &nft)
}

func (c *client) ListCompressedNfts(owner string) ([]CompressedNft, error) {
	var nfts struct {
		Data []CompressedNft `json:"data"`
	}
	err := c.do(http.MethodGet, "/cnfts", url.Values{"owner": {owner}}, nil, &nfts)
	return nfts.Data, err
}

func (c *client) TransferCompressedNft(address, recipient string) (*CompressedNft, error) {
	var nft CompressedNft
	err := c.do(http.MethodPost, path.Join("/cnfts", address, "transfer"), nil, p{"recipient": recipient}, &nft)
	return &nft, err
}

func (c *client) BurnCompressedNft(address string) error {
	return c.do(http.MethodDelete, path.Join("/cnfts", address), nil, nil, nil)
}

func (c *client) GetWallet(address string) (*Wallet, error) {
	var wallet Wallet
	return &wallet, c.do(http.MethodGet, path.Join("/wallets", address), nil, nil, &wallet)
}

// do performs the request and decodes the response in v.
// Requests other than GET are signed.
func (c *client) do(method, endpoint string, query url.Values, payload, v any) error {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, endpoint)
	u.RawQuery = query.Encode()

	//
	// Build request
	var body []byte
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "could not serialize payload")
		}
	}

	req, err := http.NewRequest(method, u.String(), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Close = true
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")

	if method != http.MethodGet {
		if c.signer == nil {
			return errors.New("no signer defined")
		}
		Sign(req, body, *c.signer, c.now())
	}

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseError(res.Body, res.StatusCode)
	}

	if v == nil {
		return nil
	}

	//
	// Process response
	dec := json.NewDecoder(res.Body)
	return errors.Wrap(dec.Decode(v), "could not parse response")
}
