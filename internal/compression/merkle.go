package compression

import (
	"golang.org/x/crypto/sha3"
)

// MaxDepth is the deepest tree the program accepts.
const MaxDepth = 30

// A Node is a leaf or an inner node of a Merkle tree.
type Node [32]byte

// EmptyNode is the value of a leaf that has never been set or that has been removed.
var EmptyNode Node

var emptyNodes = func() [MaxDepth + 1]Node {
	var nodes [MaxDepth + 1]Node
	for i := 1; i <= MaxDepth; i++ {
		nodes[i] = hashPair(nodes[i-1], nodes[i-1])
	}
	return nodes
}()

// Empty returns the root of an empty subtree of the given height.
func Empty(height uint32) Node {
	return emptyNodes[height]
}

func hashPair(left, right Node) Node {
	var n Node

	h := sha3.NewLegacyKeccak256()
	h.Write(left[:])
	h.Write(right[:])
	copy(n[:], h.Sum(nil))
	return n
}

// NodeFromBytes converts b to a Node. Missing bytes are left to zero.
func NodeFromBytes(b []byte) Node {
	var n Node
	copy(n[:], b)
	return n
}

// Root computes the root of a tree of the given depth holding the given leaves.
// Leaves not present in the slice are empty nodes.
func Root(depth uint32, leaves []Node) Node {
	level := leaves
	for height := uint32(0); height < depth; height++ {
		if len(level) == 0 {
			return Empty(depth)
		}
		level = parents(level, height)
	}

	if len(level) == 0 {
		return Empty(depth)
	}
	return level[0]
}

// Proof returns the sibling path of the leaf at index, from the leaf level up to the root children.
func Proof(depth uint32, leaves []Node, index uint32) []Node {
	proof := make([]Node, 0, depth)

	level := leaves
	i := int(index)
	for height := uint32(0); height < depth; height++ {
		sibling := i ^ 1
		if sibling < len(level) {
			proof = append(proof, level[sibling])
		} else {
			proof = append(proof, Empty(height))
		}

		level = parents(level, height)
		i /= 2
	}
	return proof
}

// Verify checks that leaf is stored at index in the tree having the given root.
func Verify(root, leaf Node, index uint32, proof []Node) bool {
	node := leaf
	for height, sibling := range proof {
		if index>>uint(height)&1 == 0 {
			node = hashPair(node, sibling)
		} else {
			node = hashPair(sibling, node)
		}
	}
	return node == root
}

// parents returns the level above the given one.
func parents(level []Node, height uint32) []Node {
	up := make([]Node, (len(level)+1)/2)
	for i := range up {
		left := level[2*i]
		right := Empty(height)
		if 2*i+1 < len(level) {
			right = level[2*i+1]
		}
		up[i] = hashPair(left, right)
	}
	return up
}
