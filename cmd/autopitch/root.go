package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autopitch",
	Short: "Cold-outreach email drafts from job posts, with free-tier limits and billing",
	Long: `AutoPitch turns a job post and a skill summary into ready-to-send
outreach email drafts.

It enforces a per-IP daily free quota with human-verification challenges,
and sells premium access through Stripe subscriptions asserted by a
signed browser cookie. No accounts, no database.

Quick start:
  autopitch serve       # Start the server
  autopitch validate    # Validate configuration`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// A .env file is optional; real environments set variables directly.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "autopitch.yaml", "config file path")
}
