package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jokio/jokauth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errTokenAbsent makes the process exit 1 without printing anything more.
var errTokenAbsent = errors.New("token absent")

func newVerifyCommand(v *viper.Viper) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "verify [token]",
		Short: "Decode a token and print its claims",
		Long: `verify checks a token and prints its claims as JSON.

The token is read from the first argument, or from stdin when no argument is
given. The exit status is 1 when the token is absent, whatever the reason.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			token, err := readToken(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			verifier, err := cfg.buildVerifier(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer verifier.Close()

			return runVerify(cmd, verifier, token, explain)
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "print the rejection reason to stderr")
	return cmd
}

func runVerify(cmd *cobra.Command, verifier *jokauth.Verifier, token string, explain bool) error {
	var (
		claims jokauth.Claims
		ok     bool
	)
	if explain {
		var err error
		claims, err = verifier.Verify(cmd.Context(), token)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "rejected: %s\n", jokauth.FailureKindOf(err))
		}
		ok = err == nil
	} else {
		claims, ok = verifier.Decode(cmd.Context(), token)
	}
	if !ok {
		return errTokenAbsent
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(claims)
}

func readToken(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return "", errors.New("no token given")
	}
	return strings.TrimSpace(scanner.Text()), nil
}
