package cmd

import (
	"fmt"

	"translation-manager/core/config"
	"translation-manager/core/database"
	"translation-manager/core/logger"
	"translation-manager/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integrityCmd verifies the database schema from the command line.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Verify the database schema against the expected models",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		reports, err := integrity.NewService(db, l).CheckSchema()
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range reports {
			if r.Status == "PASS" {
				l.Info("Table OK", zap.String("table", r.Table))
				continue
			}
			failed++
			l.Warn("Table check failed",
				zap.String("table", r.Table),
				zap.Bool("exists", r.Exists),
				zap.Strings("missing_columns", r.MissingColumns),
			)
		}
		if failed > 0 {
			return fmt.Errorf("%d table(s) failed the schema check", failed)
		}
		l.Info("Schema check passed", zap.Int("tables", len(reports)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
}
