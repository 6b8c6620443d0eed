// Package main is the entry point for the menagerie server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lunarpine/menagerie-api/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "menagerie-api",
	Short: "Menagerie progression economy server",
	Long:  `Menagerie API serves the creature, equipment, and shop progression core over a websocket gateway, persisting player state in Redis.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
