// Package hash provides the deterministic digest used for transaction data
// and inside Merkle reduction. Digests are rendered as lower-case hex.
package hash

import (
	"encoding/hex"
	"fmt"
	"sort"

	sha256 "github.com/minio/sha256-simd"
	"github.com/tjfoc/gmsm/sm3"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"

	"example.com/ledgerseal/cryptoerr"
)

// Algorithm names accepted by New.
const (
	SM3       = "sm3"
	SHA256    = "sha256"
	SHA3256   = "sha3-256"
	Keccak256 = "keccak256"
	BLAKE3    = "blake3"
)

// Hasher computes a fixed-length digest of an arbitrary message.
// Implementations hold no state and are safe for concurrent use.
type Hasher interface {
	Hash(msg []byte) string
	Name() string
}

// Func adapts a raw digest function to Hasher.
type Func struct {
	name string
	sum  func([]byte) []byte
}

// Hash returns the hex digest of msg.
func (f Func) Hash(msg []byte) string {
	return hex.EncodeToString(f.sum(msg))
}

// Name returns the algorithm name.
func (f Func) Name() string {
	return f.name
}

var algorithms = map[string]Func{
	SM3: {SM3, sm3.Sm3Sum},
	SHA256: {SHA256, func(b []byte) []byte {
		sum := sha256.Sum256(b)
		return sum[:]
	}},
	SHA3256: {SHA3256, func(b []byte) []byte {
		sum := sha3.Sum256(b)
		return sum[:]
	}},
	Keccak256: {Keccak256, func(b []byte) []byte {
		h := sha3.NewLegacyKeccak256()
		h.Write(b)
		return h.Sum(nil)
	}},
	BLAKE3: {BLAKE3, func(b []byte) []byte {
		sum := blake3.Sum256(b)
		return sum[:]
	}},
}

// New returns the hasher registered under name.
func New(name string) (Hasher, error) {
	f, ok := algorithms[name]
	if !ok {
		return nil, fmt.Errorf("unknown hash algorithm %q: %w", name, cryptoerr.ErrCryptoOperation)
	}
	return f, nil
}

// Default returns the SM3 hasher.
func Default() Hasher {
	return algorithms[SM3]
}

// Names lists the registered algorithms in sorted order.
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HashString hashes the UTF-8 bytes of s.
func HashString(h Hasher, s string) string {
	return h.Hash([]byte(s))
}
