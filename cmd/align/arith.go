package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type arithOptions struct {
	width  uint
	strict bool
}

func newDownCommand(opts *rootOptions) *cobra.Command {
	return newArithCommand(opts, opDown, "down", "Round an address down to an alignment boundary")
}

func newUpCommand(opts *rootOptions) *cobra.Command {
	cmd := newArithCommand(opts, opUp, "up", "Round an address up to an alignment boundary")
	cmd.Long = "Round an address up to an alignment boundary.\n\n" +
		"Results that do not fit in the chosen width wrap around, as unsigned " +
		"arithmetic does. Use --strict to treat this as an error."

	return cmd
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return newArithCommand(opts, opCheck, "check", "Report whether an address is aligned")
}

func newArithCommand(opts *rootOptions, op operation, name string, short string) *cobra.Command {
	arith := &arithOptions{}

	cmd := &cobra.Command{
		Use:   name + " ADDRESS ALIGNMENT",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &request{
				op:      op,
				address: args[0],
				align:   args[1],
				width:   opts.config.Width,
				strict:  arith.strict,
			}

			if cmd.Flags().Changed("width") {
				req.width = arith.width
			}

			res, err := evaluate(req)
			if err != nil {
				return err
			}

			if res.wrapped {
				opts.logger.Warn("rounding up wrapped around",
					"address", req.address,
					"alignment", req.align,
					"width", req.width,
				)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.format(op, opts.config.Format))

			return err
		},
	}

	cmd.Flags().UintVarP(&arith.width, "width", "w", 64, "Bit width of the address (8, 16, 32, 64, 128, or 0 for native uint)")

	if op == opUp {
		cmd.Flags().BoolVar(&arith.strict, "strict", false, "Fail instead of wrapping around on overflow")
	}

	return cmd
}
