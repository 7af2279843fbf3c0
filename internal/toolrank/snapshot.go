package toolrank

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"toolfinder-backend/internal/catalog"
	"toolfinder-backend/internal/shared/storage/object"
	localstore "toolfinder-backend/internal/shared/storage/object/local"
	s3store "toolfinder-backend/internal/shared/storage/object/s3"
)

type storeFlags struct {
	dir      string
	bucket   string
	prefix   string
	region   string
	kmsKeyID string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.dir, "dir", "./data", "Local snapshot directory")
	cmd.PersistentFlags().StringVar(&f.bucket, "s3-bucket", "", "Use this S3 bucket instead of --dir")
	cmd.PersistentFlags().StringVar(&f.prefix, "s3-prefix", "", "Key prefix inside the bucket")
	cmd.PersistentFlags().StringVar(&f.region, "region", "", "AWS region")
	cmd.PersistentFlags().StringVar(&f.kmsKeyID, "kms-key-id", "", "SSE-KMS key for uploads")
}

func (f *storeFlags) open(cmd *cobra.Command) (object.Store, error) {
	if f.bucket != "" {
		return s3store.New(cmd.Context(), f.region, f.bucket, f.prefix, f.kmsKeyID)
	}
	return localstore.New(f.dir), nil
}

// now is replaced in tests.
var now = time.Now

func SnapshotCmd() *cobra.Command {
	var flags storeFlags
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export, import and list catalog snapshots",
	}
	flags.register(cmd)
	cmd.AddCommand(
		snapshotExportCmd(&flags),
		snapshotImportCmd(&flags),
		snapshotListCmd(&flags),
	)
	return cmd
}

func snapshotExportCmd(flags *storeFlags) *cobra.Command {
	var (
		sqlitePath string
		demo       bool
	)
	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Write the catalog to a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.open(cmd)
			if err != nil {
				return err
			}
			var repo catalog.Repo
			switch {
			case sqlitePath != "":
				sqliteRepo, closeDB, err := openSQLiteCatalog(cmd, sqlitePath)
				if err != nil {
					return err
				}
				defer closeDB()
				repo = sqliteRepo
			case demo:
				mem := catalog.NewMemoryRepo()
				if _, err := catalog.Seed(cmd.Context(), mem, catalog.DemoCatalog()); err != nil {
					return err
				}
				repo = mem
			default:
				return errors.New("one of --sqlite or --demo is required")
			}
			key, n, err := catalog.ExportSnapshot(cmd.Context(), repo, store, args[0], now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d tools to %s\n", n, key)
			return nil
		},
	}
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Export from this sqlite catalog")
	cmd.Flags().BoolVar(&demo, "demo", false, "Export the built-in demo catalog")
	return cmd
}

func snapshotImportCmd(flags *storeFlags) *cobra.Command {
	var sqlitePath string
	cmd := &cobra.Command{
		Use:   "import <name>",
		Short: "Load a snapshot into a sqlite catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sqlitePath == "" {
				return errors.New("--sqlite is required")
			}
			store, err := flags.open(cmd)
			if err != nil {
				return err
			}
			repo, closeDB, err := openSQLiteCatalog(cmd, sqlitePath)
			if err != nil {
				return err
			}
			defer closeDB()
			n, err := catalog.ImportSnapshot(cmd.Context(), repo, store, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d tools into %s\n", n, sqlitePath)
			return nil
		},
	}
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Target sqlite catalog")
	return cmd
}

func snapshotListCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.open(cmd)
			if err != nil {
				return err
			}
			names, err := catalog.ListSnapshots(cmd.Context(), store)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}
