// Package cmd provides the command-line interface of memsim.
package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "memsim simulates demand paging and segmented memory allocation.",
	Long: `memsim simulates demand paging with FIFO and LRU page replacement, ` +
		`and a segmented memory with first-fit allocation. Flag defaults can ` +
		`be set with MEMSIM_* variables, also read from a .env file.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		loadEnvFile()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func loadEnvFile() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: cannot load .env: %v", err)
	}
}
