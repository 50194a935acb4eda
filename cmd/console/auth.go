package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tearaglass/godscruiseline/internal/access"
	"github.com/tearaglass/godscruiseline/internal/console"
)

// loginCmd exchanges a passphrase for the console admin flag
var loginCmd = &cobra.Command{
	Use:   "login [passphrase]",
	Short: "Log in with a passphrase",
	Long: `Resolve a passphrase against the API and store the admin flag.

The passphrase is read from standard input when no argument is given.
Only the admin tier unlocks the console; any other outcome clears the flag.`,
	Annotations: map[string]string{"public": "true"},
	Args:        cobra.MaximumNArgs(1),
	RunE:        runLogin,
}

// logoutCmd clears the admin flag
var logoutCmd = &cobra.Command{
	Use:         "logout",
	Short:       "Clear the stored admin flag",
	Annotations: map[string]string{"public": "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := flagStore().SetAdminFlag(false); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

func runLogin(cmd *cobra.Command, args []string) error {
	var passphrase string
	if len(args) == 1 {
		passphrase = args[0]
	} else {
		fmt.Fprint(cmd.ErrOrStderr(), "Passphrase: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read passphrase: %w", err)
		}
		passphrase = strings.TrimSpace(line)
	}

	ctx := cmd.Context()
	tier, err := console.Login(ctx, console.NewClient(apiURL, nil), flagStore(), passphrase)
	if err != nil {
		return err
	}
	switch tier {
	case access.TierAdmin:
		fmt.Fprintln(cmd.OutOrStdout(), "Logged in as admin")
	case access.TierWitness:
		fmt.Fprintln(cmd.OutOrStdout(), "Witness passphrase accepted; the console needs admin access")
	default:
		return fmt.Errorf("invalid passphrase")
	}
	return nil
}
