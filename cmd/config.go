package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/GFT-POC/Ollama-Chat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ollama-chat configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		for _, k := range cfgpkg.Keys {
			v, err := cfg.Get(k)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Re-read without CLI overrides so flags are not persisted by accident
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := c.Set(key, val); err != nil {
			return err
		}
		if key == "default_model" || key == "models_catalog" || key == "models_merge" {
			catalog, err := loadCatalogFrom(c)
			if err != nil {
				return err
			}
			if _, err := catalog.Lookup(c.DefaultModel); err != nil {
				return fmt.Errorf("default_model: %w", err)
			}
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
