package middlewares

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/blinkreg/pkg/libreg"
	"github.com/pkg/errors"
)

// CurrentSignerContextKey is the key to retrieve the current_signer from echo.Context.
const CurrentSignerContextKey = "current_signer"

// MaxNonces is the number of nonces remembered for replay detection.
const MaxNonces = 1 << 16

// Signature returns a middleware that checks the ed25519 signature of the request.
// A signer nonce is accepted once while its timestamp is inside the skew window.
// It stores the base58 address of the signer into echo.Context.
func Signature(maxSkew time.Duration, now func() time.Time) echo.MiddlewareFunc {
	if now == nil {
		now = time.Now
	}
	// A timestamp ahead of the clock stays valid up to twice the skew.
	seen := newNonces(2*maxSkew + time.Second)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			signer := req.Header.Get(libreg.HeaderSigner)
			signature := req.Header.Get(libreg.HeaderSignature)
			nonce := req.Header.Get(libreg.HeaderNonce)
			timestamp, err := strconv.ParseInt(req.Header.Get(libreg.HeaderTimestamp), 10, 64)
			if signer == "" || signature == "" || nonce == "" || err != nil {
				return invalidSignature(c, "Missing request signature.")
			}

			skew := now().Sub(time.Unix(timestamp, 0))
			if skew < 0 {
				skew = -skew
			}
			if skew > maxSkew {
				return invalidSignature(c, "Expired request signature.")
			}

			var body []byte
			if req.Body != nil {
				body, err = io.ReadAll(req.Body)
				if err != nil {
					return errors.Wrap(err, "could not read request body")
				}
				req.Body = io.NopCloser(bytes.NewReader(body))
			}

			message := libreg.SigningMessage(req.Method, req.URL.Path, timestamp, nonce, body)
			if err = libreg.Verify(signer, signature, message); err != nil {
				return invalidSignature(c, "Invalid request signature.")
			}

			if !seen.add(signer + "/" + nonce) {
				return invalidSignature(c, "Replayed request signature.")
			}

			// Store current_signer for handlers.
			c.Set(CurrentSignerContextKey, signer)
			return next(c)
		}
	}
}

func invalidSignature(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error": echo.Map{
			"tag":     "invalid-signature",
			"message": message,
		},
	})
}

type nonces struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

func newNonces(ttl time.Duration) *nonces {
	return &nonces{
		seen: expirable.NewLRU[string, struct{}](MaxNonces, nil, ttl),
	}
}

// add returns false if the key was already seen.
func (n *nonces) add(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.seen.Contains(key) {
		return false
	}
	n.seen.Add(key, struct{}{})
	return true
}
