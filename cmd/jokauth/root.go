package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var cfgFile string
	v := initViper()

	root := &cobra.Command{
		Use:   "jokauth",
		Short: "Verify nkeys-signed bearer tokens",
		Long: `jokauth checks compact bearer tokens against an nkeys account key.

The key is read from JOK_ACCOUNT_SEED (or --public-key / JOK_ACCOUNT_PUBLIC_KEY).
Other settings come from JOK_* environment variables or ./config.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
			}
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	bindFlags(root, v)

	root.AddCommand(
		newVerifyCommand(v),
		newPubkeyCommand(v),
		newBenchCommand(v),
		newReportCommand(v),
		newPerfcheckCommand(),
	)
	return root
}
