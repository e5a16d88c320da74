package txpool

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Transaction is a pending ledger transaction. It is immutable once created.
type Transaction struct {
	// ID is the Merkle leaf value.
	ID string
	// Timestamp orders the pool, in unix nanoseconds.
	Timestamp int64
	// Sender is the sender's public key in key-encoder text form.
	Sender    string
	Payload   []byte
	Signature []byte
}

// SigningBytes returns the message the sender signs: ID, sender and payload.
func (tx *Transaction) SigningBytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(tx.ID)
	buf.WriteString(tx.Sender)
	buf.Write(tx.Payload)
	return buf.Bytes()
}

// Serialize gob-encodes the transaction.
func (tx *Transaction) Serialize() ([]byte, error) {
	var result bytes.Buffer
	if err := gob.NewEncoder(&result).Encode(tx); err != nil {
		return nil, fmt.Errorf("encode transaction %s: %w", tx.ID, err)
	}
	return result.Bytes(), nil
}

// DeserializeTransaction decodes a transaction written by Serialize.
func DeserializeTransaction(d []byte) (*Transaction, error) {
	var tx Transaction
	if err := gob.NewDecoder(bytes.NewReader(d)).Decode(&tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return &tx, nil
}

// less orders by timestamp, then by ID.
func less(a, b *Transaction) bool {
	if a.Timestamp != b.Timestamp {
		return a.Timestamp < b.Timestamp
	}
	return a.ID < b.ID
}

// IDs returns the identifiers of txs in order.
func IDs(txs []Transaction) []string {
	ids := make([]string, len(txs))
	for i := range txs {
		ids[i] = txs[i].ID
	}
	return ids
}
