// Package suite resolves the configured algorithm names into the concrete
// primitives the rest of the module works with.
package suite

import (
	"example.com/ledgerseal/config"
	"example.com/ledgerseal/hash"
	"example.com/ledgerseal/keyenc"
	"example.com/ledgerseal/merkle"
	"example.com/ledgerseal/pow"
	"example.com/ledgerseal/signature"
	"example.com/ledgerseal/symmetric"
)

// Suite bundles one implementation of every primitive.
type Suite struct {
	Hasher  hash.Hasher
	Cipher  symmetric.Cipher
	Scheme  signature.Scheme
	Encoder *keyenc.Encoder
	Decoder *keyenc.Decoder
	Merkle  *merkle.Builder
	PoW     *pow.ProofOfWork
}

// New builds the suite described by cfg.
func New(cfg *config.Config) (*Suite, error) {
	h, err := hash.New(cfg.Hash)
	if err != nil {
		return nil, err
	}
	c, err := symmetric.New(cfg.Cipher)
	if err != nil {
		return nil, err
	}
	scheme, err := signature.New(cfg.Signature)
	if err != nil {
		return nil, err
	}
	enc, err := keyenc.New(cfg.KeyEncoding)
	if err != nil {
		return nil, err
	}
	dec, err := keyenc.NewDecoder(cfg.KeyEncoding, scheme)
	if err != nil {
		return nil, err
	}
	policy, err := merkle.ParseOddPolicy(cfg.Merkle.OddPolicy)
	if err != nil {
		return nil, err
	}
	p, err := pow.NewProofOfWork(cfg.Difficulty)
	if err != nil {
		return nil, err
	}

	return &Suite{
		Hasher:  h,
		Cipher:  c,
		Scheme:  scheme,
		Encoder: enc,
		Decoder: dec,
		Merkle:  merkle.NewBuilder(h, policy),
		PoW:     p,
	}, nil
}
