package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"voxdesk/internal/config"
	"voxdesk/internal/database"
	"voxdesk/internal/logger"
)

type app struct {
	configPath string
	cfg        config.Config
	log        *logger.Logger
}

// NewRootCommand builds the voxdesk command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "voxdesk",
		Short:         "Contact management backend for the voice calling platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			log, err := logger.New("voxdesk", cfg.Env)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.log.SafeSync()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "voxdesk.yaml", "path to YAML config file")

	root.AddCommand(
		newServeCommand(a),
		newImportCommand(a),
		newExportCommand(a),
		newNormalizeCommand(a),
	)
	return root
}

func (a *app) openRepository(ctx context.Context) (*database.DB, *database.ContactRepository, error) {
	db, err := database.New(ctx, a.cfg.DatabaseURL, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, database.NewContactRepository(db), nil
}
