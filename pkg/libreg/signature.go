package libreg

import (
	"bytes"
	"crypto/ed25519"
	"net/http"
	"strconv"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/gofrs/uuid"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// Headers used to sign requests.
const (
	HeaderSigner    = "X-Signer"
	HeaderTimestamp = "X-Timestamp"
	HeaderNonce     = "X-Nonce"
	HeaderSignature = "X-Signature"
)

// ErrInvalidSignature is returned when a signature does not match its message.
var ErrInvalidSignature = errors.New("invalid signature")

// SigningMessage returns the payload signed by the request signer.
func SigningMessage(method, path string, timestamp int64, nonce string, body []byte) []byte {
	var b bytes.Buffer
	b.WriteString(method)
	b.WriteByte('\n')
	b.WriteString(path)
	b.WriteByte('\n')
	b.WriteString(strconv.FormatInt(timestamp, 10))
	b.WriteByte('\n')
	b.WriteString(nonce)
	b.WriteByte('\n')
	b.Write(body)
	return b.Bytes()
}

// NewNonce returns a random request nonce.
func NewNonce() string {
	return uuid.Must(uuid.NewV4()).String()
}

// Sign adds the signature headers to the request.
// The body must be the exact payload of the request.
// Each call uses a new nonce so identical requests get different signatures.
func Sign(req *http.Request, body []byte, signer types.Account, at time.Time) {
	timestamp := at.Unix()
	nonce := NewNonce()
	signature := signer.Sign(SigningMessage(req.Method, req.URL.Path, timestamp, nonce, body))

	req.Header.Set(HeaderSigner, signer.PublicKey.ToBase58())
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(timestamp, 10))
	req.Header.Set(HeaderNonce, nonce)
	req.Header.Set(HeaderSignature, base58.Encode(signature))
}

// Verify checks the base58 signature of message against the base58 signer address.
func Verify(signer, signature string, message []byte) error {
	pk, err := base58.Decode(signer)
	if err != nil || len(pk) != common.PublicKeyLength {
		return errors.Wrap(ErrInvalidSignature, "signer")
	}

	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return errors.Wrap(ErrInvalidSignature, "signature")
	}

	if !ed25519.Verify(ed25519.PublicKey(pk), message, sig) {
		return ErrInvalidSignature
	}
	return nil
}
