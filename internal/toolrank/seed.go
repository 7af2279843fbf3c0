package toolrank

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"toolfinder-backend/internal/catalog"
	"toolfinder-backend/internal/shared/storage/db"
)

func SeedCmd() *cobra.Command {
	var (
		sqlitePath string
		yamlPath   string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the demo catalog to a sqlite database or a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sqlitePath == "" && yamlPath == "" {
				return errors.New("one of --sqlite or --yaml is required")
			}
			tools := catalog.DemoCatalog()
			out := cmd.OutOrStdout()
			if yamlPath != "" {
				if err := writeCatalogFile(yamlPath, tools); err != nil {
					return fmt.Errorf("write %s: %w", yamlPath, err)
				}
				fmt.Fprintf(out, "wrote %d tools to %s\n", len(tools), yamlPath)
			}
			if sqlitePath != "" {
				repo, closeDB, err := openSQLiteCatalog(cmd, sqlitePath)
				if err != nil {
					return err
				}
				defer closeDB()
				n, err := catalog.Seed(cmd.Context(), repo, tools)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "seeded %d tools into %s\n", n, sqlitePath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database path")
	cmd.Flags().StringVar(&yamlPath, "yaml", "", "YAML catalog path")
	return cmd
}

// openSQLiteCatalog opens and migrates a sqlite catalog.
func openSQLiteCatalog(cmd *cobra.Command, path string) (*catalog.SQLiteRepo, func(), error) {
	sdb, err := db.OpenSQLite(cmd.Context(), path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(cmd.Context(), sdb.DB, db.DialectSQLite); err != nil {
		_ = sdb.Close()
		return nil, nil, err
	}
	return &catalog.SQLiteRepo{DB: sdb}, func() { _ = sdb.Close() }, nil
}
