package main

import (
	"fmt"

	"github.com/dhamidi/jvmsym/format"
	"github.com/dhamidi/jvmsym/signature"
	"github.com/spf13/cobra"
)

func newSignatureCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "signature <sig>",
		Short: "Decode a generic class, method or field signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			tw := format.NewTreeWriter(out)

			var encoded string
			switch kind {
			case "class":
				gc, err := signature.ParseClassSignature(args[0])
				if err != nil {
					return err
				}
				if err := tw.ClassSignature(gc); err != nil {
					return err
				}
				encoded = gc.String()
			case "method":
				gm, err := signature.ParseMethodSignature(args[0])
				if err != nil {
					return err
				}
				if err := tw.MethodSignature(gm); err != nil {
					return err
				}
				encoded = gm.String()
			case "field":
				gs, err := signature.ParseFieldSignature(args[0])
				if err != nil {
					return err
				}
				if err := tw.Signature(gs); err != nil {
					return err
				}
				encoded = gs.String()
			default:
				return fmt.Errorf("unknown signature kind: %s (expected class, method or field)", kind)
			}

			fmt.Fprintf(out, "encoded: %s\n", encoded)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "field", "signature kind: class, method or field")

	return cmd
}
