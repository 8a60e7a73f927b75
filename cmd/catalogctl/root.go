package main

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/product-catalog/config"
	"github.com/GoSim-25-26J-441/product-catalog/internal/bootstrap"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/repository"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/service"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config

	// openSlot is swapped in tests.
	openSlot = bootstrap.OpenSlot
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Inspect and maintain the product catalog snapshot",
	Long: `catalogctl works directly on the snapshot slot configured through the
environment (STORAGE_DRIVER, SNAPSHOT_KEY, ...), the same way the API server does.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg = loaded
	return nil
}

// openStore loads the catalog from the configured slot. Call the returned func when done.
func openStore(ctx context.Context) (*service.CatalogService, func(), error) {
	slot, err := openSlot(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	store := service.NewCatalogService(repository.NewSnapshotRepository(slot), nil)
	if _, err := store.Load(ctx); err != nil {
		slot.Close()
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return store, func() { _ = slot.Close() }, nil
}
