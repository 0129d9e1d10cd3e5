package main

import (
	"fmt"
	"os"

	"github.com/davejbax/align/internal/layout"
	"github.com/spf13/cobra"
)

func newTableCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "table FILE...",
		Short: "Print section tables written by 'layout --table-dir'",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				plan, err := readTableFile(path)
				if err != nil {
					return err
				}

				if err := printPlan(cmd.OutOrStdout(), path, plan, opts.config.Format); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func readTableFile(path string) (*layout.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open section table: %w", err)
	}
	defer f.Close()

	plan, err := layout.ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read section table '%s': %w", path, err)
	}

	return plan, nil
}
