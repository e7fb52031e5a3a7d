package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dhamidi/jvmsym/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// globals are the persistent flags and the configuration they resolve to.
type globals struct {
	configFile string
	verbose    int
	cfg        *config.Config
}

func (g *globals) load() error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(wd, g.configFile)
	if err != nil {
		return err
	}
	g.cfg = cfg

	verbosity := cfg.Log.Verbosity + g.verbose
	if cfg.Log.File != "" {
		commonlog.Configure(verbosity, &cfg.Log.File)
	} else {
		commonlog.Configure(verbosity, nil)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:           "jvmsym",
		Short:         "Decode JVM names, descriptors and signatures, and index class files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", "config file (default is ./"+config.FileName+")")
	rootCmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newDescriptorCmd())
	rootCmd.AddCommand(newSignatureCmd())
	rootCmd.AddCommand(newFqnCmd())
	rootCmd.AddCommand(newScanCmd(g))
	rootCmd.AddCommand(newRefsCmd(g))

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
