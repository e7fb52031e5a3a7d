package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jvmsym/symbol"
	"github.com/spf13/cobra"
)

func newFqnCmd() *cobra.Command {
	var splitter string
	var contains bool

	cmd := &cobra.Command{
		Use:   "fqn <name>...",
		Short: "Convert class names between forms or check containment",
		Long: `Convert class names between dotted, internal and descriptor forms.

With --contains, the two arguments are names written as symbol keys
(package:java.lang, class:java.util.Map$Entry, field:a.B.f,
method:a.B.run()V) and the command reports whether the first contains the
second. Arguments without a kind prefix are classes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if contains {
				if len(args) != 2 {
					return fmt.Errorf("--contains takes exactly two names, got %d", len(args))
				}
				return runContains(out, args[0], args[1])
			}
			for _, arg := range args {
				printClassName(out, symbol.SplitClassName(arg, splitter))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&splitter, "splitter", "s", ".", "separator between package segments in the input")
	cmd.Flags().BoolVarP(&contains, "contains", "c", false, "report whether the first name contains the second")

	return cmd
}

func printClassName(w io.Writer, c symbol.ClassName) {
	fmt.Fprintf(w, "fqn:        %s\n", c.FqnString())
	fmt.Fprintf(w, "internal:   %s\n", c.InternalName())
	fmt.Fprintf(w, "descriptor: %s\n", c.InternalString())
	fmt.Fprintf(w, "package:    %s\n", c.Package().FqnString())
	fmt.Fprintf(w, "simple:     %s\n", c.SimpleName())
	if outer, ok := c.Outer(); ok {
		fmt.Fprintf(w, "outer:      %s\n", outer.FqnString())
	}
}

func runContains(w io.Writer, a, b string) error {
	outer, err := parseName(a)
	if err != nil {
		return err
	}
	inner, err := parseName(b)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s contains %s: %t\n", symbol.Key(outer), symbol.Key(inner), symbol.Contains(outer, inner))
	return nil
}

// parseName reads the "<kind>:<fqn>" form produced by symbol.Key.
func parseName(s string) (symbol.FullyQualifiedName, error) {
	kind, name, ok := strings.Cut(s, ":")
	if !ok {
		kind, name = string(symbol.KindClass), s
	}
	switch symbol.Kind(kind) {
	case symbol.KindPackage:
		if name == "" {
			return symbol.NewPackageName(), nil
		}
		return symbol.NewPackageName(strings.Split(name, ".")...), nil
	case symbol.KindClass:
		return symbol.ClassNameFromFqn(name), nil
	case symbol.KindField:
		i := strings.LastIndex(name, ".")
		if i < 0 {
			return nil, fmt.Errorf("field %q has no owner class", name)
		}
		return symbol.NewFieldName(symbol.ClassNameFromFqn(name[:i]), name[i+1:]), nil
	case symbol.KindMethod:
		paren := strings.Index(name, "(")
		if paren < 0 {
			return nil, fmt.Errorf("method %q has no descriptor", name)
		}
		desc, err := symbol.ParseMethodDescriptor(name[paren:])
		if err != nil {
			return nil, err
		}
		i := strings.LastIndex(name[:paren], ".")
		if i < 0 {
			return nil, fmt.Errorf("method %q has no owner class", name)
		}
		return symbol.NewMethodName(symbol.ClassNameFromFqn(name[:i]), name[i+1:paren], desc), nil
	}
	return nil, fmt.Errorf("unknown name kind: %s", kind)
}
