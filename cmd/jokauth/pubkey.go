package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newPubkeyCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "pubkey",
		Short: "Print the public key tokens are verified against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			verifier, err := cfg.buildVerifier(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer verifier.Close()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), verifier.PublicKey())
			return err
		},
	}
}
