// Package merkle reduces an ordered list of transaction identifiers to a
// single root hash by iterative pairwise hashing.
package merkle

import (
	"fmt"

	"example.com/ledgerseal/cryptoerr"
	"example.com/ledgerseal/hash"
)

// OddPolicy decides what happens to the unpaired last element of a layer
// with an odd number of entries.
type OddPolicy int

const (
	// Duplicate pairs the tail with itself.
	Duplicate OddPolicy = iota
	// Drop discards the tail. The original chain computes roots this way.
	Drop
)

// ParseOddPolicy maps "duplicate" and "drop" to their policy.
func ParseOddPolicy(s string) (OddPolicy, error) {
	switch s {
	case "duplicate", "":
		return Duplicate, nil
	case "drop":
		return Drop, nil
	}
	return Duplicate, fmt.Errorf("unknown odd leaf policy %q", s)
}

func (p OddPolicy) String() string {
	switch p {
	case Duplicate:
		return "duplicate"
	case Drop:
		return "drop"
	}
	return fmt.Sprintf("OddPolicy(%d)", int(p))
}

// MerkleTree keeps every layer of a reduction. Layers[0] holds the leaves and
// the last layer holds only the root.
type MerkleTree struct {
	Layers [][]string
}

// Root returns the single element of the last layer.
func (t *MerkleTree) Root() string {
	return t.Layers[len(t.Layers)-1][0]
}

// Builder computes Merkle roots with a fixed hasher and odd policy. A Builder
// has no mutable state and is safe for concurrent use.
type Builder struct {
	hasher hash.Hasher
	policy OddPolicy
}

// NewBuilder returns a builder. A nil hasher selects hash.Default.
func NewBuilder(h hash.Hasher, policy OddPolicy) *Builder {
	if h == nil {
		h = hash.Default()
	}
	return &Builder{hasher: h, policy: policy}
}

// Policy returns the odd leaf policy.
func (b *Builder) Policy() OddPolicy { return b.policy }

// Hasher returns the hash function used for interior nodes.
func (b *Builder) Hasher() hash.Hasher { return b.hasher }

// Root returns the Merkle root of ids. A single id is its own root, with no
// hashing applied. Zero ids return cryptoerr.ErrEmptyInput.
func (b *Builder) Root(ids []string) (string, error) {
	tree, err := b.NewMerkleTree(ids)
	if err != nil {
		return "", err
	}
	return tree.Root(), nil
}

// NewMerkleTree reduces ids layer by layer until one element remains.
func (b *Builder) NewMerkleTree(ids []string) (*MerkleTree, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("merkle root of zero leaves: %w", cryptoerr.ErrEmptyInput)
	}

	layer := append([]string(nil), ids...)
	tree := &MerkleTree{Layers: [][]string{layer}}

	for len(layer) > 1 {
		layer = b.nextLayer(layer)
		tree.Layers = append(tree.Layers, layer)
	}

	return tree, nil
}

func (b *Builder) nextLayer(prev []string) []string {
	next := make([]string, 0, (len(prev)+1)/2)

	for i := 1; i < len(prev); i += 2 {
		next = append(next, b.hasher.Hash([]byte(prev[i-1]+prev[i])))
	}

	if len(prev)%2 != 0 && b.policy == Duplicate {
		last := prev[len(prev)-1]
		next = append(next, b.hasher.Hash([]byte(last+last)))
	}

	return next
}

// Root is shorthand for NewBuilder(h, policy).Root(ids).
func Root(ids []string, h hash.Hasher, policy OddPolicy) (string, error) {
	return NewBuilder(h, policy).Root(ids)
}
