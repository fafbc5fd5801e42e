package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string
	root := &cobra.Command{
		Use:           "lovepattern",
		Short:         "LovePattern relationship pattern analysis backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional YAML/JSON config file; environment variables override it")

	serve := newServeCommand(&configFile)
	root.AddCommand(serve)
	root.AddCommand(newRenderCommand())
	root.AddCommand(newCatalogCommand())

	// serve is the default
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}
