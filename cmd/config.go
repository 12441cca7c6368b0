package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jfmyers9/lastfm-go/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store your Last.fm API credentials",
	Long: `Prompt for a Last.fm API key (and optional secret) and save them to
~/.config/lastfm-go/config.yaml.

You can get API credentials from: https://www.last.fm/api/account/create`,
	Args: cobra.NoArgs,
	RunE: runConfigSetKey,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(config.GetConfigDir(), "config.yaml"))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configPathCmd)

	configSetKeyCmd.Flags().String("user", "", "Also set the default user")
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.LastFM.APIKey != "" {
		fmt.Fprintf(out, "Found existing API key: %s\n", cfg.LastFM.APIKey)
		fmt.Fprint(out, "Replace it? [y/N]: ")
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			return nil
		}
	}

	fmt.Fprint(out, "Enter your Last.fm API Key: ")
	apiKey, err := reader.ReadString('\n')
	if err != nil && apiKey == "" {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	cfg.LastFM.APIKey = strings.TrimSpace(apiKey)
	if cfg.LastFM.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	fmt.Fprint(out, "Enter your Last.fm API Secret (optional): ")
	apiSecret, _ := reader.ReadString('\n')
	cfg.LastFM.APISecret = strings.TrimSpace(apiSecret)

	if user, _ := cmd.Flags().GetString("user"); user != "" {
		cfg.DefaultUser = user
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configFile := filepath.Join(config.GetConfigDir(), "config.yaml")
	if err := os.Chmod(configFile, 0600); err != nil {
		logger.Warn().Err(err).Msg("Failed to restrict config file permissions")
	}

	fmt.Fprintf(out, "\n✓ Credentials saved to %s\n", configFile)
	return nil
}
