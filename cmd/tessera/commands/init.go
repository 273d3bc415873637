package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/tessera/internal/printer"
	"github.com/dyluth/tessera/internal/scaffold"
)

var (
	forceInit bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new tessera project",
	Long: `Initialize a new tessera project with a default configuration.

Creates:
  • tessera.yml - grid, breakpoints, persistence and storage settings

Use --force to reinitialize an existing project (WARNING: overwrites existing configuration).`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing tessera.yml")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to initialize")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	created, err := scaffold.Initialize(initDir, forceInit)
	if err != nil {
		return printer.Error("initialization failed", err.Error(), nil)
	}

	printer.Success("Initialized tessera project\n")
	printer.Println("\nCreated:")
	for _, path := range created {
		printer.Printf("  ✓ %s\n", path)
	}
	printer.Println("\nNext steps:")
	printer.Println("  1. Add '.tessera/' to your .gitignore file")
	printer.Println("  2. Run 'tessera list' to see the default dashboard")
	printer.Println("  3. Run 'tessera catalog' to browse widget types")
	return nil
}
