package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docparse/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the collection as markdown, YAML, JSON, or PDF",
	Long: `Export writes the collection to a file in the export directory. The
default file name is papers_export_YYYYMMDD_HHMMSS with the format's
extension.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "", "export format: markdown, yaml, json, or pdf (overrides export.format)")
	exportCmd.Flags().StringP("output", "o", "", "output file name")
	exportCmd.Flags().String("dir", "", "export directory (overrides export.dir)")
	viper.BindPFlag("export.format", exportCmd.Flags().Lookup("format"))
	viper.BindPFlag("export.dir", exportCmd.Flags().Lookup("dir"))

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(string(cfg.Export.Format))
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	coll, err := openCollection(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}
	defer coll.Close()

	path, err := coll.Export(format, output)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
