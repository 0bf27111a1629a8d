package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/docparse/pkg/types"
)

const defaultConcurrency = 4

var addCmd = &cobra.Command{
	Use:   "add [locators...]",
	Short: "Add papers from URLs, arXiv IDs, DOIs, or local files",
	Long: `Add converts each document to markdown, extracts its title and
abstract, and stores it in the collection. Documents are converted
concurrently; a failure on one locator does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().Int("concurrency", defaultConcurrency, "maximum number of documents converted at once")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	coll, err := openCollection(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer coll.Close()

	failed := addAll(cmd.Context(), coll, args, concurrency, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if failed > 0 {
		return fmt.Errorf("%d of %d paper(s) failed", failed, len(args))
	}
	return nil
}

// adder is the part of the collection addAll needs.
type adder interface {
	Add(ctx context.Context, locator string) (types.Paper, error)
}

// addAll adds every locator, at most limit at a time, printing one line per
// added paper to out and one per failure to errOut. It returns the number of
// failures.
func addAll(ctx context.Context, coll adder, locators []string, limit int, out, errOut io.Writer) int {
	if limit < 1 {
		limit = 1
	}

	var (
		mu     sync.Mutex
		failed int
	)
	var g errgroup.Group
	g.SetLimit(limit)
	for _, locator := range locators {
		g.Go(func() error {
			p, err := coll.Add(ctx, locator)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				log.Error().Err(err).Str("url", locator).Msg("add failed")
				fmt.Fprintf(errOut, "failed: %s: %v\n", locator, err)
				return nil
			}
			fmt.Fprintf(out, "%d\t%s\n", p.ID, p.Title)
			if p.Abstract == types.NoAbstract {
				log.Warn().Int("id", p.ID).Msg("no abstract found")
			}
			return nil
		})
	}
	g.Wait()
	return failed
}
