// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docparse CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docparse/internal/collection"
	"github.com/pdiddy/docparse/internal/convert"
	"github.com/pdiddy/docparse/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docparse CLI.
var rootCmd = &cobra.Command{
	Use:   "docparse",
	Short: "Collect papers and extract their titles and abstracts",
	Long: `docparse converts documents (web pages, PDFs, arXiv IDs, DOIs, local
files) to heading-annotated markdown, extracts the title and the Abstract
section, and keeps the results in a persistent collection.

The collection can be managed from the command line or served over HTTP
with "docparse serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		return setupLogging(viper.GetString("log.level"), viper.GetString("log.format"), verbose)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docparse.yaml or ~/.config/docparse/docparse.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("store", "", "collection file or database (overrides store.path)")
	rootCmd.PersistentFlags().String("store-backend", "", "collection backend: json or sqlite (overrides store.backend)")

	viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("store.backend", rootCmd.PersistentFlags().Lookup("store-backend"))
}

// setDefaults registers every configuration key so that AutomaticEnv can
// resolve it and Unmarshal sees it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allow_files", false)
	v.SetDefault("store.backend", string(types.StoreJSON))
	v.SetDefault("store.path", collection.DefaultPath)
	v.SetDefault("fetch.timeout", 60*time.Second)
	v.SetDefault("fetch.user_agent", "docparse/"+strings.TrimPrefix(version, "v"))
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.max_bytes", 50<<20)
	v.SetDefault("convert.backend", string(types.BackendNative))
	v.SetDefault("convert.runtime", "auto")
	v.SetDefault("convert.image", convert.DefaultMarkitdownImage)
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.format", string(types.ExportMarkdown))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docparse")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docparse"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("DOCPARSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged configuration (defaults, file, environment,
// bound flags) into an AppConfig.
func loadConfig(v *viper.Viper) (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// setupLogging configures the global zerolog logger. verbose forces debug
// level regardless of level.
func setupLogging(level, format string, verbose bool) error {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl := zerolog.InfoLevel
	if s := strings.TrimSpace(level); s != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	case "console", "":
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	default:
		return fmt.Errorf("invalid log format %q: use console or json", format)
	}
	return nil
}

// openCollection loads the configured store. When withConverter is set the
// configured conversion backend is also initialized so the collection can
// add papers by locator.
func openCollection(ctx context.Context, cfg types.AppConfig, withConverter bool) (*collection.Collection, error) {
	store, err := collection.NewStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	var conv convert.Converter
	if withConverter {
		g, err := convert.New(ctx, cfg.Fetch, cfg.Convert)
		if err != nil {
			store.Close()
			return nil, err
		}
		conv = g
	}

	coll, err := collection.New(store, conv, collection.WithExportDir(cfg.Export.Dir))
	if err != nil {
		store.Close()
		return nil, err
	}
	return coll, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
