// Package cryptoerr holds the error taxonomy shared by the primitives and the
// Merkle builder. Call sites wrap these sentinels, so match with errors.Is.
package cryptoerr

import "errors"

var (
	// ErrCryptoOperation reports malformed input or an unsupported key
	// length or format for a hash or cipher operation.
	ErrCryptoOperation = errors.New("crypto operation failed")

	// ErrDecryption reports an authentication tag or padding failure,
	// typically a mismatched key.
	ErrDecryption = errors.New("decryption failed")

	// ErrSigning reports an unusable private key or message during signing.
	ErrSigning = errors.New("signing failed")

	// ErrEmptyInput reports a Merkle reduction over zero leaves.
	ErrEmptyInput = errors.New("empty input")
)
