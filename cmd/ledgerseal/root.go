package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"example.com/ledgerseal/config"
	"example.com/ledgerseal/logging"
	"example.com/ledgerseal/suite"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded the configuration.
type app struct {
	configPath string
	cfg        *config.Config
	suite      *suite.Suite
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "ledgerseal",
		Short:        "Authenticate and summarize pending ledger transactions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")

	root.AddCommand(
		newHashCmd(a),
		newEncryptCmd(a),
		newDecryptCmd(a),
		newKeygenCmd(a),
		newSignCmd(a),
		newVerifyCmd(a),
		newMerkleCmd(a),
		newTargetCmd(a),
		newPoolCmd(a),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	s, err := suite.New(cfg)
	if err != nil {
		return err
	}

	a.cfg, a.suite, a.logger = cfg, s, logger
	return nil
}
