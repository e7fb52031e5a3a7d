package main

import (
	"fmt"

	"github.com/dhamidi/jvmsym/refgraph"
	"github.com/dhamidi/jvmsym/symbol"
	"github.com/spf13/cobra"
)

func newRefsCmd(g *globals) *cobra.Command {
	var (
		external  bool
		outgoing  bool
		reachable bool
	)

	cmd := &cobra.Command{
		Use:   "refs <path> <name>",
		Short: "List the symbols referencing a class, field or method",
		Long: `Scan path and list the symbols whose bodies reference name directly.

name is a class FQN or a symbol key such as method:a.B.run()V. With
--external, a class also collects references to its members and nested
classes, from outside the class.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := parseName(args[1])
			if err != nil {
				return err
			}
			res, err := scanPath(cmd.Context(), g, args[0])
			if err != nil {
				return err
			}
			graph, err := refgraph.Build(res.Classes)
			if err != nil {
				return fmt.Errorf("build reference graph: %w", err)
			}

			var nodes []*refgraph.Node
			switch {
			case external:
				nodes = graph.ExternalReferrers(name)
			case reachable:
				nodes, err = graph.Reachable(name)
			case outgoing:
				nodes, err = graph.References(name)
			default:
				nodes, err = graph.ReferencedBy(name)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, n := range nodes {
				marker := " "
				if !n.Declared {
					marker = "?"
				}
				fmt.Fprintf(out, "%s %s\n", marker, n.Key)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d results\n", symbol.Key(name), len(nodes))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&external, "external", "e", false, "include references to contained symbols, from outside name")
	cmd.Flags().BoolVarP(&outgoing, "outgoing", "o", false, "list what name references instead")
	cmd.Flags().BoolVarP(&reachable, "reachable", "r", false, "list everything name transitively references")
	cmd.MarkFlagsMutuallyExclusive("external", "outgoing", "reachable")

	return cmd
}
