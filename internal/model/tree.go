package model

// A Tree represents a concurrent Merkle tree account owned by the compression program.
type Tree struct {
	Base `msgpack:",inline" storm:"inline"`

	Authority      string   `msgpack:"authority"       storm:"index"`
	Public         bool     `msgpack:"public"`
	MaxDepth       uint32   `msgpack:"max_depth"`
	MaxBufferSize  uint32   `msgpack:"max_buffer_size"`
	Sequence       uint64   `msgpack:"sequence"`
	RightmostIndex uint32   `msgpack:"rightmost_index"`
	Leaves         [][]byte `msgpack:"leaves"`
	Root           []byte   `msgpack:"root"`
}

// Capacity returns the number of leaves the tree can hold.
func (m *Tree) Capacity() uint64 {
	return 1 << m.MaxDepth
}

// Change log kinds.
const (
	ChangeAppend  = "append"
	ChangeReplace = "replace"
	ChangeRemove  = "remove"
)

// A ChangeLog is an event emitted by the compression program for each tree mutation.
type ChangeLog struct {
	ID       int    `json:"-"        msgpack:"id"        storm:"id,increment"`
	TreeID   string `json:"tree"     msgpack:"tree_id"   storm:"index"`
	Sequence uint64 `json:"sequence" msgpack:"sequence"  storm:"index"`
	Kind     string `json:"kind"     msgpack:"kind"`
	Index    uint32 `json:"index"    msgpack:"index"`
	Leaf     []byte `json:"leaf"     msgpack:"leaf"`
	Root     []byte `json:"root"     msgpack:"root"`
	At       int64  `json:"at"       msgpack:"at"`
}
