package main

import (
	"fmt"
	"log"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/backup"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/domain"
	"github.com/spf13/cobra"
)

var (
	backupDir    string
	restoreIn    string
	confirmReset bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write the catalog to BACKUP_DIR/products_<timestamp>.json",
	RunE:  runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the catalog with a JSON backup",
	RunE:  runRestore,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the catalog with the built-in seed products",
	RunE:  runReset,
}

func init() {
	backupCmd.Flags().StringVarP(&backupDir, "dir", "d", "", "Backup directory (defaults to BACKUP_DIR)")
	restoreCmd.Flags().StringVarP(&restoreIn, "in", "i", "", "Backup file to restore (required)")
	restoreCmd.MarkFlagRequired("in")
	resetCmd.Flags().BoolVar(&confirmReset, "yes", false, "Confirm that every product is replaced by the seed")
}

func runBackup(cmd *cobra.Command, args []string) error {
	store, done, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	dir := backupDir
	if dir == "" {
		dir = cfg.Backup.Dir
	}
	path, err := backup.NewService(store, dir).Backup(cmd.Context())
	if err != nil {
		return err
	}
	log.Printf("Backup completed successfully: %s", path)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	store, done, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	n, err := backup.NewService(store, cfg.Backup.Dir).Restore(cmd.Context(), restoreIn)
	if err != nil {
		return err
	}
	log.Printf("Restored %d products from %s", n, restoreIn)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	if !confirmReset {
		return fmt.Errorf("reset replaces every product; rerun with --yes")
	}

	store, done, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	seed := domain.Seed()
	if err := store.Replace(cmd.Context(), seed); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	log.Printf("Catalog reset to %d seed products", len(seed))
	return nil
}
