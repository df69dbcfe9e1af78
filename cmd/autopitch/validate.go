package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zackdaniels09/autopitch-ai/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadWithFallback(cfgFile)
		if err != nil {
			return fmt.Errorf("configuration invalid: %w", err)
		}

		fmt.Println("Configuration valid")
		fmt.Printf("  Model:        %s\n", cfg.LLM.Model)
		fmt.Printf("  Daily free:   %d (challenge after %d)\n", cfg.Limits.DailyFree, cfg.Limits.ChallengeThreshold)
		fmt.Printf("  Burst:        %d per %s\n", cfg.Limits.BurstLimit, cfg.Limits.BurstWindow)
		fmt.Printf("  Challenge:    %v\n", cfg.Challenge.Enabled)
		fmt.Printf("  Billing:      %v\n", cfg.Billing.Enabled)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
