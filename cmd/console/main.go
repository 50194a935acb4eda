package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tearaglass/godscruiseline/internal/console"
)

const defaultAPIURL = "http://localhost:8080"

var (
	apiURL    string
	statePath string
	verbose   bool
	timeout   time.Duration

	logger *zap.Logger
)

// rootCmd is the admin console entry point
var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Gods Cruiseline admin console",
	Long: `Administer the Gods Cruiseline records and projects catalogue.

Every command except login and logout requires the admin flag, which is
set by logging in with the admin passphrase. When the API cannot be reached,
list commands fall back to the bundled dataset and say so.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if cmd.Annotations["public"] == "true" {
			return nil
		}
		_, err = console.ResolveAccess(flagStore())
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("GC_API_URL", defaultAPIURL), "API base URL (or set GC_API_URL)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", envOr("GC_STATE_FILE", console.DefaultStatePath()), "Console state file (or set GC_STATE_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(refreshCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// refreshCmd reloads both collections and reports where they came from
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reload records and projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			err := s.ctrl.Load(ctx)
			st := s.ctrl.State
			fmt.Fprintf(cmd.OutOrStdout(), "records: %d (%s)\nprojects: %d (%s)\n",
				len(st.Records), sourceName(st.RecordsSource),
				len(st.Projects), sourceName(st.ProjectsSource))
			return err
		})
	},
}

type session struct {
	client *console.Client
	ctrl   *console.Controller
}

// withSession runs fn against a fresh controller and prints the notices it
// accumulated, whatever the outcome.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	client := console.NewClient(apiURL, nil)
	s := &session{client: client, ctrl: console.NewController(client, logger)}
	err := fn(ctx, s)
	console.RenderNotices(cmd.ErrOrStderr(), s.ctrl.State)
	return err
}

func flagStore() console.FileFlagStore {
	return console.FileFlagStore{Path: statePath}
}

// parseSets turns repeated --set key=value flags into a form.
func parseSets(sets []string) (console.Form, error) {
	form := console.Form{}
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", s)
		}
		form[k] = v
	}
	return form, nil
}

func sourceName(src console.Source) string {
	switch src {
	case console.SourceLive:
		return "live"
	case console.SourceLocal:
		return "local data"
	default:
		return "not loaded"
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
