package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docparse/internal/section"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract a heading-delimited section from markdown",
	Long: `Extract prints the body of the first section whose heading matches
--section (case-insensitive), normalized to a single line. The input is the
named markdown file, or standard input when the file is "-" or omitted.
With --title it prints the document title instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("section", section.AbstractLabel, "heading label of the section to extract")
	extractCmd.Flags().Bool("title", false, "print the first level-1 heading instead of a section")
	extractCmd.Flags().String("fallback", "", "title printed when the document has none (default: the file name)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	name := "-"
	if len(args) == 1 {
		name = args[0]
	}
	text, err := readInput(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if wantTitle, _ := cmd.Flags().GetBool("title"); wantTitle {
		fallback, _ := cmd.Flags().GetString("fallback")
		if fallback == "" {
			fallback = name
		}
		_, err := fmt.Fprintln(out, section.ExtractTitle(text, fallback))
		return err
	}

	label, _ := cmd.Flags().GetString("section")
	body, ok := section.Extract(text, label)
	if !ok {
		return fmt.Errorf("section %q not found", label)
	}
	_, err = fmt.Fprintln(out, body)
	return err
}

func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}
