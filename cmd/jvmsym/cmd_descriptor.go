package main

import (
	"fmt"

	"github.com/dhamidi/jvmsym/format"
	"github.com/dhamidi/jvmsym/symbol"
	"github.com/spf13/cobra"
)

func newDescriptorCmd() *cobra.Command {
	var method bool

	cmd := &cobra.Command{
		Use:   "descriptor <desc>...",
		Short: "Decode field or method descriptors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := format.NewTreeWriter(cmd.OutOrStdout())
			for _, arg := range args {
				if method {
					d, err := symbol.ParseMethodDescriptor(arg)
					if err != nil {
						return err
					}
					if err := tw.Descriptor(d); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "encoded: %s\n", d.DescriptorString())
					continue
				}
				d, err := symbol.ParseDescriptorType(arg)
				if err != nil {
					return err
				}
				if err := tw.Type(d); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "encoded: %s\n", d.InternalString())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&method, "method", "m", false, "decode method descriptors instead of field types")

	return cmd
}
