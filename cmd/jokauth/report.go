package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newReportCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the verifier's security posture as JSON",
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

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(verifier.SecurityReport())
		},
	}
}
