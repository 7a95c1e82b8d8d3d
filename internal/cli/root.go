package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/scentora/storefront/internal/config"
	"github.com/scentora/storefront/internal/logging"
)

// NewRootCommand creates the root command for the storefront shell.
//
// Flag parsing is disabled on the cobra side: the config package owns the
// flag surface (-a, -d, -c/-config) and filters os.Args itself, so both
// layers can read the same argument list without stepping on each other.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "storefront",
		Short:              "Scentora storefront shell",
		Long:               "An interactive shopping shell over the Scentora backend: browse the catalog, manage a cart as guest or signed in, and check out.",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := config.LoadConfig()

			level := slog.LevelInfo
			if os.Getenv("STOREFRONT_DEBUG") != "" {
				level = slog.LevelDebug
			}
			log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			app, err := NewApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			app.Run(ctx)
			return nil
		},
	}
	return cmd
}
