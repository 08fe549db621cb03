package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskmaster/tasklists/cmd/api/commands"
)

// @title Task Lists API
// @version 1.0
// @description Recurring task lists with period-validated due dates
// @BasePath /

func main() {
	rootCmd := &cobra.Command{
		Use:   "tasklists",
		Short: "Task lists API server",
		Long:  `tasklists serves a small REST API for recurring task lists, their tasks and a paginated task search.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewIndexesCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
