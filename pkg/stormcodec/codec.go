// Package stormcodec provides the ledger storage codecs that can be selected by name.
package stormcodec

import (
	"bytes"

	"github.com/asdine/storm/v3/codec"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/pkg/errors"
	ucodec "github.com/ugorji/go/codec"
)

// Codec names.
const (
	MsgPack = "msgpack"
	CBOR    = "cbor"
	Binc    = "binc"
)

var (
	// CborCodec encodes to and decodes from CBOR (Concise Binary Object Representation).
	// https://tools.ietf.org/html/rfc7049
	CborCodec codec.MarshalUnmarshaler = &ugorji{name: CBOR, handle: &ucodec.CborHandle{}}

	// BincCodec encodes to and decodes from Binc.
	// See https://github.com/ugorji/binc
	BincCodec codec.MarshalUnmarshaler = &ugorji{name: Binc, handle: &ucodec.BincHandle{}}
)

// Lookup returns the codec registered under the given name.
// An empty name selects msgpack.
func Lookup(name string) (codec.MarshalUnmarshaler, error) {
	switch name {
	case "", MsgPack:
		return msgpack.Codec, nil
	case CBOR:
		return CborCodec, nil
	case Binc:
		return BincCodec, nil
	default:
		return nil, errors.Errorf("unknown database codec: %s", name)
	}
}

type ugorji struct {
	name   string
	handle ucodec.Handle
}

func (c *ugorji) Marshal(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := ucodec.NewEncoder(&b, c.handle)
	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (c *ugorji) Unmarshal(b []byte, v any) error {
	r := bytes.NewReader(b)
	dec := ucodec.NewDecoder(r, c.handle)
	return dec.Decode(v)
}

func (c *ugorji) Name() string {
	return c.name
}
