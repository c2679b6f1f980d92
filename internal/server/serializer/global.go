package serializer

import "github.com/mr-tron/base58"

// Global serialize the given list to the general API response format.
func Global(render any) map[string]any {
	return map[string]any{
		"data": render,
	}
}

// node encodes a 32-byte tree node.
func node(b []byte) string {
	return base58.Encode(b)
}
