package serializer

import (
	"github.com/mdouchement/blinkreg/internal/compression"
	"github.com/mdouchement/blinkreg/internal/model"
)

// Tree serializes the render of a tree.
// Leaves are not rendered, use proofs to read them.
func Tree(m *model.Tree) map[string]any {
	return map[string]any{
		"address":         m.ID,
		"authority":       m.Authority,
		"public":          m.Public,
		"max_depth":       m.MaxDepth,
		"max_buffer_size": m.MaxBufferSize,
		"sequence":        m.Sequence,
		"rightmost_index": m.RightmostIndex,
		"capacity":        m.Capacity(),
		"root":            node(m.Root),
		"created_at":      m.CreatedAt,
		"updated_at":      m.UpdatedAt,
	}
}

// Proof serializes the render of a leaf proof.
func Proof(tree string, m *compression.TreeProof) map[string]any {
	proof := make([]string, len(m.Proof))
	for i, n := range m.Proof {
		proof[i] = node(n[:])
	}

	return map[string]any{
		"tree":  tree,
		"index": m.Index,
		"leaf":  node(m.Leaf[:]),
		"root":  node(m.Root[:]),
		"proof": proof,
	}
}

// ChangeLogs serializes the render of change log entries.
func ChangeLogs(m []*model.ChangeLog) []map[string]any {
	entries := make([]map[string]any, len(m))
	for i, e := range m {
		entries[i] = map[string]any{
			"tree":     e.TreeID,
			"sequence": e.Sequence,
			"kind":     e.Kind,
			"index":    e.Index,
			"leaf":     node(e.Leaf),
			"root":     node(e.Root),
			"at":       e.At,
		}
	}
	return entries
}
