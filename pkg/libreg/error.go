package libreg

import (
	"encoding/json"
	"io"
)

// An Error reprensents an HTTP error returned by blinkreg server.
type Error struct {
	StatusCode int
	Err        struct {
		Tag     string `json:"tag"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseError(r io.Reader, code int) error {
	var rerr Error
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rerr); err != nil {
		return err
	}
	rerr.StatusCode = code
	return &rerr
}

func (e *Error) Error() string {
	if e.Err.Tag != "" {
		return e.Err.Tag + ": " + e.Err.Message
	}
	return e.Err.Message
}
