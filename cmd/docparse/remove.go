package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docparse/pkg/types"
)

var removeCmd = &cobra.Command{
	Use:     "remove [ids...]",
	Aliases: []string{"rm"},
	Short:   "Remove papers from the collection by id",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	coll, err := openCollection(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}
	defer coll.Close()

	missing := 0
	for _, id := range ids {
		removed, err := coll.Remove(id)
		if err != nil {
			return err
		}
		if !removed {
			missing++
			fmt.Fprintf(cmd.ErrOrStderr(), "paper %d: %v\n", id, types.ErrNotFound)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", id)
	}
	if missing > 0 {
		return fmt.Errorf("%d paper(s): %w", missing, types.ErrNotFound)
	}
	return nil
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return nil, &types.ValidationError{Field: "id", Reason: fmt.Sprintf("%q is not an integer", a)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
