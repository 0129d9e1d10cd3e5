package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/davejbax/align/internal/layout"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errDuplicateTableName = errors.New("section table name is not unique")

func newLayoutCommand(opts *rootOptions) *cobra.Command {
	tableDir := ""

	cmd := &cobra.Command{
		Use:   "layout FILE...",
		Short: "Place sections described by layout files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plans := make([]*layout.Plan, len(args))

			tables, err := tablePaths(tableDir, args)
			if err != nil {
				return err
			}

			eg := &errgroup.Group{}

			for i, path := range args {
				i, path := i, path
				eg.Go(func() error {
					l, err := layout.Load(path)
					if err != nil {
						return err
					}

					plan, err := l.Plan(opts.logger.With("layout", path))
					if err != nil {
						return fmt.Errorf("failed to plan layout '%s': %w", path, err)
					}

					if tables != nil {
						if err := writeTable(plan, tables[i], path); err != nil {
							return err
						}
					}

					plans[i] = plan

					return nil
				})
			}

			if err := eg.Wait(); err != nil {
				return err
			}

			for i, plan := range plans {
				if err := printPlan(cmd.OutOrStdout(), args[i], plan, opts.config.Format); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&tableDir, "table-dir", "t", "", "Write a binary section table for each layout into this directory")

	return cmd
}

// tablePaths maps each layout file to its section table path in dir, or
// returns nil if dir is empty. Layouts whose names would collide are rejected.
func tablePaths(dir string, layoutPaths []string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}

	paths := make([]string, len(layoutPaths))
	owners := make(map[string]string, len(layoutPaths))

	for i, layoutPath := range layoutPaths {
		name := strings.TrimSuffix(filepath.Base(layoutPath), filepath.Ext(layoutPath)) + ".bin"

		if owner, ok := owners[name]; ok {
			return nil, fmt.Errorf("'%s' and '%s' would both write %s: %w", owner, layoutPath, name, errDuplicateTableName)
		}
		owners[name] = layoutPath

		paths[i] = filepath.Join(dir, name)
	}

	return paths, nil
}

func writeTable(plan *layout.Plan, tablePath string, layoutPath string) error {
	output, err := os.OpenFile(tablePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("could not open section table file: %w", err)
	}

	if _, err := plan.WriteTo(output); err != nil {
		_ = output.Close()
		return fmt.Errorf("failed to write section table for '%s': %w", layoutPath, err)
	}

	return output.Close()
}

func printPlan(w io.Writer, path string, plan *layout.Plan, format string) error {
	num := func(v uint64) string {
		if format == formatDec {
			return strconv.FormatUint(v, 10)
		}

		return "0x" + strconv.FormatUint(v, 16)
	}

	if _, err := fmt.Fprintf(w, "%s: base %s end %s size %s\n", path, num(plan.Base), num(plan.End), num(plan.Size())); err != nil {
		return err
	}

	for _, p := range plan.Placements {
		if _, err := fmt.Fprintf(w, "  %-16s offset %s size %s align %s padding %s\n",
			p.Name, num(p.Offset), num(p.Size), num(p.Alignment), num(p.Padding)); err != nil {
			return err
		}
	}

	return nil
}
