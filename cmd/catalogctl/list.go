package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every product in catalog order",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	store, done, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tNAME\tNUMBER\tIMAGES")
	for i, p := range store.List() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", i, p.ID, p.Name, p.Number, len(p.Images))
	}
	return w.Flush()
}
