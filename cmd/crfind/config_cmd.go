package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/campusreels/crfind/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure library location and search limits",
	Long: `Interactive configuration wizard for the library directory and result
limits. Creates or updates the configuration file at ~/.config/crfind/config.yaml`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	printLogo(version)
	printTitle("Configuration Wizard")

	// Load existing config if available
	existingCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Get library directory
	printPrompt(fmt.Sprintf("Library directory [%s]: ", existingCfg.Data.Dir))
	dir, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	dir = strings.TrimSpace(dir)

	// Use existing directory if user pressed Enter without input
	if dir == "" {
		dir = existingCfg.Data.Dir
	}

	// Get max results (optional)
	printPrompt(fmt.Sprintf("Maximum direct search results [%d]: ", existingCfg.Search.MaxResults))
	maxResultsStr, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	maxResultsStr = strings.TrimSpace(maxResultsStr)

	maxResults := existingCfg.Search.MaxResults
	if maxResultsStr != "" {
		if _, err := fmt.Sscanf(maxResultsStr, "%d", &maxResults); err != nil || maxResults <= 0 {
			printMuted(fmt.Sprintf("Warning: invalid limit '%s', keeping %d", maxResultsStr, existingCfg.Search.MaxResults))
			maxResults = existingCfg.Search.MaxResults
		}
	}

	// Save configuration
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Keys match the mapstructure names the loader expects
	data, err := yaml.Marshal(map[string]interface{}{
		"data": map[string]interface{}{
			"dir": dir,
		},
		"search": map[string]interface{}{
			"max_results":    maxResults,
			"suggest_limit":  existingCfg.Search.SuggestLimit,
			"trending_limit": existingCfg.Search.TrendingLimit,
		},
		"muted_tags": existingCfg.MutedTags,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(config.ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printSuccess("Configuration saved to " + config.ConfigPath())

	// Leave a fully commented example next to it for the remaining options
	if err := config.CreateExampleConfig(); err == nil {
		printMuted("Example config with all options: " + config.ExampleConfigPath())
	}

	fmt.Println("\nYou can now run 'crfind seed' to create a sample library.")

	return nil
}
