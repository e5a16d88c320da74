package main

import (
	"crypto"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"example.com/ledgerseal/seal"
	"example.com/ledgerseal/txpool"
)

func newPoolCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Manage the pending transaction pool",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "pool database, overrides pool.path")

	open := func() (*txpool.BoltPool, error) {
		path := a.cfg.Pool.Path
		if dbPath != "" {
			path = dbPath
		}
		timeout, err := a.cfg.PoolTimeout()
		if err != nil {
			return nil, err
		}
		return txpool.OpenBoltPool(path, timeout, a.logger)
	}

	cmd.AddCommand(
		newPoolAddCmd(a, open),
		newPoolPeekCmd(a, open),
		newPoolCountCmd(open),
		newPoolSealCmd(a, open),
	)
	return cmd
}

type poolOpener func() (*txpool.BoltPool, error)

func newPoolAddCmd(a *app, open poolOpener) *cobra.Command {
	var id, payload, keyText, sender string
	var timestamp int64
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction, signed when --key is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				id = uuid.NewString()
			}
			if timestamp == 0 {
				timestamp = time.Now().UnixNano()
			}
			tx := txpool.Transaction{ID: id, Timestamp: timestamp, Sender: sender, Payload: []byte(payload)}

			if keyText != "" {
				priv, err := a.suite.Decoder.DecodePrivate(keyText)
				if err != nil {
					return err
				}
				derived, err := senderOf(a, priv)
				if err != nil {
					return err
				}
				switch {
				case tx.Sender == "":
					tx.Sender = derived
				case tx.Sender != derived:
					return errors.New("--sender does not match the public half of --key")
				}
				if err := seal.SignTransaction(a.suite.Scheme, priv, &tx); err != nil {
					return err
				}
			}

			p, err := open()
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.Add(cmd.Context(), tx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tx.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "transaction ID, random when empty")
	cmd.Flags().StringVar(&payload, "payload", "", "transaction payload")
	cmd.Flags().StringVar(&sender, "sender", "", "sender public key, key-encoding text form, derived from --key when empty")
	cmd.Flags().StringVarP(&keyText, "key", "k", "", "sender private key used to sign")
	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "unix nanoseconds, now when zero")
	return cmd
}

// senderOf renders the public half of priv the way transactions carry it.
func senderOf(a *app, priv crypto.PrivateKey) (string, error) {
	pub, err := a.suite.Scheme.PublicKey(priv)
	if err != nil {
		return "", err
	}
	return a.suite.Encoder.Encode(pub)
}

func newPoolPeekCmd(a *app, open poolOpener) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "peek",
		Short: "List the earliest pending transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit == 0 {
				limit = a.cfg.BatchSize
			}
			p, err := open()
			if err != nil {
				return err
			}
			defer p.Close()

			txs, err := p.PeekEarliest(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, tx := range txs {
				fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", tx.Timestamp, tx.ID)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of transactions, batch_size when zero")
	return cmd
}

func newPoolCountCmd(open poolOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of pending transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := open()
			if err != nil {
				return err
			}
			defer p.Close()

			n, err := p.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newPoolSealCmd(a *app, open poolOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "seal",
		Short: "Compute the Merkle root of the next batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := open()
			if err != nil {
				return err
			}
			defer p.Close()

			sealer, err := seal.New(p, a.suite, seal.Options{
				BatchSize:        a.cfg.BatchSize,
				VerifySignatures: a.cfg.VerifySignatures,
				Logger:           a.logger,
			})
			if err != nil {
				return err
			}

			res, err := sealer.Seal(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "root: %s\n", res.Root)
			fmt.Fprintf(out, "transactions: %d of %d\n", len(res.Transactions), res.PoolCount)
			fmt.Fprintf(out, "target: %q\n", res.Target)
			return nil
		},
	}
}
