package regerror

import (
	"net/http"

	"github.com/pkg/errors"
)

type (
	// An Error represents the error format that can be rendered by blinkreg server.
	// Program errors are package values and must never be mutated.
	Error struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
)

// Registry program errors. Both registries number their own errors from 6000.
var (
	ErrNameTooLong                 = define(http.StatusBadRequest, 6000, "NameTooLong", "The provided name is too long")
	ErrDescriptionTooLong          = define(http.StatusBadRequest, 6001, "DescriptionTooLong", "The provided description is too long")
	ErrInvalidBlinkType            = define(http.StatusBadRequest, 6002, "InvalidBlinkType", "Invalid blink type")
	ErrSymbolTooLong               = define(http.StatusBadRequest, 6001, "SymbolTooLong", "The provided symbol is too long")
	ErrURITooLong                  = define(http.StatusBadRequest, 6002, "UriTooLong", "The provided URI is too long")
	ErrInvalidSellerFeeBasisPoints = define(http.StatusBadRequest, 6003, "InvalidSellerFeeBasisPoints", "Invalid seller fee basis points")
)

// Framework errors.
var (
	ErrAccountAlreadyInUse        = define(http.StatusConflict, 0, "AccountAlreadyInUse", "Account already in use")
	ErrInvalidAddress             = define(http.StatusBadRequest, 1, "InvalidAddress", "Invalid base58 address")
	ErrConstraintHasOne           = define(http.StatusForbidden, 2001, "ConstraintHasOne", "A has one constraint was violated")
	ErrAccountDidNotSerialize     = define(http.StatusBadRequest, 3004, "AccountDidNotSerialize", "Failed to serialize the account")
	ErrAccountOwnedByWrongProgram = define(http.StatusBadRequest, 3007, "AccountOwnedByWrongProgram", "The given account is owned by a different program than expected")
	ErrAccountNotInitialized      = define(http.StatusNotFound, 3012, "AccountNotInitialized", "The program expected this account to be already initialized")
)

// Compression program errors.
var (
	ErrIncorrectAuthority   = define(http.StatusForbidden, 6100, "IncorrectAuthority", "Incorrect tree authority")
	ErrTreeFull             = define(http.StatusConflict, 6101, "TreeFull", "Merkle tree is full")
	ErrLeafIndexOutOfBounds = define(http.StatusBadRequest, 6102, "LeafIndexOutOfBounds", "Leaf index out of bounds")
	ErrLeafContentsModified = define(http.StatusConflict, 6103, "LeafContentsModified", "Leaf contents were modified")
	ErrInvalidTreeConfig    = define(http.StatusBadRequest, 6104, "InvalidTreeConfig", "Invalid tree configuration")
)

func define(code, number int, tag, message string) *Error {
	return &Error{HTTPCode: code, FieldError: err{Tag: tag, Code: number, Message: message}}
}

// StatusCode returns the HTTP status code.
func StatusCode(e error) int {
	if rerr, ok := errors.Cause(e).(*Error); ok && rerr.HTTPCode != 0 {
		return rerr.HTTPCode
	}
	return http.StatusInternalServerError
}

// As returns the Error wrapped by e, if any.
func As(e error) (*Error, bool) {
	rerr, ok := errors.Cause(e).(*Error)
	return rerr, ok
}

// New returns a new Error with the given message.
func New(message string) *Error {
	return &Error{FieldError: err{Message: message}}
}

// Tag returns the error tag.
func (e *Error) Tag() string {
	return e.FieldError.Tag
}

// Code returns the program error number.
func (e *Error) Code() int {
	return e.FieldError.Code
}

// Error implements error interface.
func (e *Error) Error() string {
	return e.FieldError.Message
}
