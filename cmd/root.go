package cmd

import (
	"fmt"

	"github.com/raushankrgupta/virtual-try-on/config"
	"github.com/raushankrgupta/virtual-try-on/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root has loaded it
type app struct {
	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "tryon",
		Short: "Virtual try-on front end",
		Long: `Tryon lets you upload a photo of a person and a photo of a garment, describe how
it should be worn, and send both to a virtual try-on backend.

It can run as a web interface (serve) or submit a single request from the terminal (submit).
Configuration comes from .env, an optional config.yaml and the environment.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := utils.InitLogger(cfg.Mode); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			utils.Logger.Debug("config loaded",
				zap.String("backend_url", cfg.BackendURL),
				zap.String("prefs_backend", cfg.Prefs.Backend))
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			utils.Sync()
		},
	}

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newSubmitCmd(a))
	cmd.AddCommand(newThemeCmd(a))

	return cmd
}
