package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shelfd/shelfd/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "shelfd",
		Short:   "A self-hosted bookmark manager",
		Long:    "Shelfd — save, tag, and page through your bookmarks from any device.",
		Version: fmt.Sprintf("%s (%s@%s)", build.Version, build.Commit, build.Branch),
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
