package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docparse/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert [locator]",
	Short: "Convert a document to markdown without adding it",
	Long: `Convert fetches or reads a document (URL, arXiv ID, DOI, or local
file) and prints the heading-annotated markdown the collection would store.
Supports the native (HTML and PDF in-process) and markitdown (container)
backends.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("backend", "", "conversion backend: native or markitdown (overrides convert.backend)")
	convertCmd.Flags().StringP("output", "o", "", "write markdown to this file instead of stdout")
	viper.BindPFlag("convert.backend", convertCmd.Flags().Lookup("backend"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	g, err := convert.New(cmd.Context(), cfg.Fetch, cfg.Convert)
	if err != nil {
		return err
	}

	text, err := g.Convert(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}
	if err := os.WriteFile(output, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Wrote", output)
	return nil
}
