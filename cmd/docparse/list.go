package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docparse/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List papers in the collection",
	RunE:  runList,
}

func init() {
	listCmd.Flags().Bool("json", false, "output summaries as JSON")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	coll, err := openCollection(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}
	defer coll.Close()

	return printSummaries(cmd.OutOrStdout(), coll.List(), asJSON)
}

func printSummaries(w io.Writer, papers []types.PaperSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}

	if len(papers) == 0 {
		_, err := fmt.Fprintln(w, "No papers in the collection.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tADDED\tTITLE\tURL")
	for _, p := range papers {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.AddedDate.Format(time.DateOnly), p.Title, p.URL)
	}
	return tw.Flush()
}
