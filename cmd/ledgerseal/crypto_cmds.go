package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"example.com/ledgerseal/hash"
	"example.com/ledgerseal/pow"
	"example.com/ledgerseal/symmetric"
)

var errInvalidSignature = errors.New("signature is invalid")

func newHashCmd(a *app) *cobra.Command {
	var algo string
	cmd := &cobra.Command{
		Use:   "hash <message>",
		Short: "Print the hex digest of a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := a.suite.Hasher
			if algo != "" {
				var err error
				if h, err = hash.New(algo); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), h.Hash([]byte(args[0])))
			return nil
		},
	}
	cmd.Flags().StringVar(&algo, "algo", "", "hash algorithm, overrides the configuration")
	return cmd
}

func newEncryptCmd(a *app) *cobra.Command {
	var keyText string
	cmd := &cobra.Command{
		Use:   "encrypt <message>",
		Short: "Encrypt a message under a symmetric key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.suite.Decoder.DecodeSymmetric(keyText)
			if err != nil {
				return err
			}
			ct, err := a.suite.Cipher.Encrypt([]byte(args[0]), key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ct)
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyText, "key", "k", "", "symmetric key, key-encoding text form")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newDecryptCmd(a *app) *cobra.Command {
	var keyText string
	cmd := &cobra.Command{
		Use:   "decrypt <ciphertext>",
		Short: "Decrypt a ciphertext produced by encrypt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.suite.Decoder.DecodeSymmetric(keyText)
			if err != nil {
				return err
			}
			msg, err := a.suite.Cipher.Decrypt(args[0], key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(msg))
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyText, "key", "k", "", "symmetric key, key-encoding text form")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newKeygenCmd(a *app) *cobra.Command {
	var sym bool
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a signing key pair, or a symmetric key with --symmetric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if sym {
				key, err := symmetric.GenerateKey(a.suite.Cipher)
				if err != nil {
					return err
				}
				text, err := a.suite.Encoder.Encode(key)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "key: %s\n", text)
				return nil
			}

			priv, pub, err := a.suite.Scheme.GenerateKey()
			if err != nil {
				return err
			}
			privText, err := a.suite.Encoder.Encode(priv)
			if err != nil {
				return err
			}
			pubText, err := a.suite.Encoder.Encode(pub)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "private: %s\npublic: %s\n", privText, pubText)
			return nil
		},
	}
	cmd.Flags().BoolVar(&sym, "symmetric", false, "generate a key for the configured cipher")
	return cmd
}

func newSignCmd(a *app) *cobra.Command {
	var keyText string
	cmd := &cobra.Command{
		Use:   "sign <message>",
		Short: "Sign a message with an encoded private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := a.suite.Decoder.DecodePrivate(keyText)
			if err != nil {
				return err
			}
			sig, err := a.suite.Scheme.Sign(priv, []byte(args[0]))
			if err != nil {
				return err
			}
			text, err := a.suite.Encoder.Encode(sig)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyText, "key", "k", "", "private key, key-encoding text form")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var keyText, sigText string
	cmd := &cobra.Command{
		Use:   "verify <message>",
		Short: "Check a signature against an encoded public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := a.suite.Decoder.DecodePublic(keyText)
			if err != nil {
				return err
			}
			sig, err := a.suite.Decoder.DecodeBytes(sigText)
			if err != nil {
				return err
			}
			if !a.suite.Scheme.Verify(pub, []byte(args[0]), sig) {
				return errInvalidSignature
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyText, "key", "k", "", "public key, key-encoding text form")
	cmd.Flags().StringVarP(&sigText, "sig", "s", "", "signature, key-encoding text form")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("sig")
	return cmd
}

func newMerkleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merkle <id>...",
		Short: "Print the Merkle root of transaction IDs in the given order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.suite.Merkle.Root(args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), root)
			return nil
		},
	}
}

func newTargetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "target [length]",
		Short: "Print the proof-of-work zero prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := a.suite.PoW.Target()
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("length %q: %w", args[0], err)
				}
				if target, err = pow.Target(n); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q\n", target)
			return nil
		},
	}
}
