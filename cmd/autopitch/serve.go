package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zackdaniels09/autopitch-ai/bootstrap"
	"github.com/zackdaniels09/autopitch-ai/config"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the AutoPitch server",
	Long: `Start the AutoPitch server.

The server will:
  - Load configuration from autopitch.yaml (or --config)
  - Or load configuration from AUTOPITCH_* environment variables
  - Serve the landing page and the generation API
  - Enforce per-IP daily quotas and burst limits

Environment variables (for Docker deployments):
  AUTOPITCH_LLM_API_KEY     - Completion vendor API key (required)
  AUTOPITCH_COOKIE_SECRET   - Entitlement cookie signing secret (required)
  AUTOPITCH_SERVER_PORT     - Server port (default: 8080)
  AUTOPITCH_BILLING_ENABLED - Enable Stripe billing
  AUTOPITCH_STRIPE_KEY      - Stripe secret key
  AUTOPITCH_LOG_LEVEL       - Log level: debug, info, warn, error

Examples:
  autopitch serve
  autopitch serve --config /etc/autopitch/config.yaml
  autopitch serve --hot-reload=false

  # Docker (env vars only):
  AUTOPITCH_LLM_API_KEY=... autopitch serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	if !hasConfigFile && !config.HasEnvConfig() {
		fmt.Println("No configuration found.")
		fmt.Println()
		fmt.Printf("Option 1: Create %s\n", cfgFile)
		fmt.Println("Option 2: Set AUTOPITCH_LLM_API_KEY and AUTOPITCH_COOKIE_SECRET")
		fmt.Println()
		fmt.Println("Example (env vars):")
		fmt.Println("  AUTOPITCH_LLM_API_KEY=... AUTOPITCH_COOKIE_SECRET=... autopitch serve")
		return nil
	}

	var app *bootstrap.App
	var err error

	if hasConfigFile && hotReload {
		// Hot reload only works with a config file
		app, err = bootstrap.NewWithHotReload(cfgFile)
	} else {
		cfg, loadErr := config.LoadWithFallback(cfgFile)
		if loadErr != nil {
			return fmt.Errorf("error loading config: %w", loadErr)
		}

		if !hasConfigFile {
			fmt.Println("Running with environment variables (no config file)")
		}

		app, err = bootstrap.New(cfg)
	}

	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
