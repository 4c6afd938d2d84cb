// Package cli wires configuration, content stores and the HTTP server into
// the tutorial command.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"tutorial/internal/config"
	"tutorial/internal/logging"
)

type rootState struct {
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
}

func NewRootCmd() *cobra.Command {
	state := &rootState{}

	rootCmd := &cobra.Command{
		Use:   "tutorial",
		Short: "Serve the interactive Svelte tutorial",
		Long: `tutorial serves tutorial exercises by slug, redirecting deprecated slugs to
their replacements and answering unknown ones with a 404.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(state.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			level, err := logging.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}

			state.cfg = cfg
			state.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
			if cfg.File != "" {
				state.logger.Debug("using config file", "path", cfg.File)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&state.cfgFile, "config", "", "config file (default: ./tutorial.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("content-source", "", "content backend (fs|graphql)")
	rootCmd.PersistentFlags().String("content-dir", "", "tutorial content directory for the fs backend")
	rootCmd.PersistentFlags().String("redis-addr", "", "redis address for the content cache (empty disables it)")

	rootCmd.AddCommand(newServeCommand(state))
	rootCmd.AddCommand(newResolveCommand(state))
	rootCmd.AddCommand(newEntriesCommand(state))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
