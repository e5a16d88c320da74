// Package pow produces the proof-of-work comparison string consumed by an
// external mining loop.
package pow

import (
	"fmt"
	"strings"

	"example.com/ledgerseal/cryptoerr"
)

// Target returns length '0' characters. Target(0) is the empty string.
func Target(length int) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("difficulty %d is negative: %w", length, cryptoerr.ErrCryptoOperation)
	}
	return strings.Repeat("0", length), nil
}

// ProofOfWork holds the difficulty fixed at configuration time.
type ProofOfWork struct {
	difficulty int
	target     string
}

// NewProofOfWork builds the target for difficulty once.
func NewProofOfWork(difficulty int) (*ProofOfWork, error) {
	target, err := Target(difficulty)
	if err != nil {
		return nil, err
	}
	return &ProofOfWork{difficulty: difficulty, target: target}, nil
}

// Difficulty is the number of leading zeros required.
func (pow *ProofOfWork) Difficulty() int {
	return pow.difficulty
}

// Target returns the zero prefix.
func (pow *ProofOfWork) Target() string {
	return pow.target
}

// Validate reports whether a candidate block hash carries the target prefix.
func (pow *ProofOfWork) Validate(hash string) bool {
	return len(hash) >= len(pow.target) && hash[:len(pow.target)] == pow.target
}
