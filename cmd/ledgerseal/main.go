// Command ledgerseal exposes the hashing, cipher, signature and Merkle
// primitives and the pending transaction pool on the command line.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
