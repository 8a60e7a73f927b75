package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/csvio"
	"github.com/spf13/cobra"
)

var (
	exportOut string
	importIn  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as CSV",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the catalog with the products of a CSV file",
	Long: `Replace the whole catalog with the rows of a CSV file.
Columns: id (optional), name, number, description, images (JSON array of {"url","name"}; the older "url|name;url|name" form is still read).`,
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "Output CSV file (- for stdout)")
	importCmd.Flags().StringVarP(&importIn, "in", "i", "", "Input CSV file (required)")
	importCmd.MarkFlagRequired("in")
}

func runExport(cmd *cobra.Command, args []string) error {
	store, done, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "-" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	products := store.List()
	if err := csvio.Export(w, products); err != nil {
		return err
	}
	if exportOut != "-" {
		log.Printf("Exported %d products to %s", len(products), exportOut)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(importIn)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	products, err := csvio.Import(f)
	if err != nil {
		return err
	}

	store, done, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	if err := store.Replace(cmd.Context(), products); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	log.Printf("Imported %d products from %s", len(products), importIn)
	return nil
}
