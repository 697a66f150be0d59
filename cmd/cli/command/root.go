package command

// root.go defines the root command for the watchroom CLI.
// Global flags and configuration are set up here.

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL string // Global flag for API server URL
	token  string // authentication token (jwt)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "watchroom",
	Short: "watchroom - shared movie watchlist CLI",
	Long: `watchroom is a client for the watchroom API. Use it to:
- Search movies and manage your personal watchlist
- Create theatres and invite friends
- Shuffle a theatre's merged list to pick tonight's movie

Use "watchroom <command> -h" to see all available commands.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "watchroom API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("WATCHROOM_TOKEN"), "access token (defaults to WATCHROOM_TOKEN)")
}
