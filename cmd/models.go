package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/GFT-POC/Ollama-Chat/internal/ai"
	"github.com/GFT-POC/Ollama-Chat/internal/ui"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect the model catalog",
	Example: `  ollama-chat models list
  ollama-chat models show mistral-nemo
  ollama-chat models export --output models.yaml`,
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known models and their context windows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "MODEL\tCONTEXT\tPARAMETERS")
		for _, p := range catalog.Profiles() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, humanize.Comma(int64(p.MaxTokens)), p.Parameters)
		}
		return tw.Flush()
	},
}

var modelsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the model card for one model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		p, err := catalog.Lookup(args[0])
		if err != nil {
			return err
		}
		ui.NewRenderer(cmd.OutOrStdout(), false).Profile(p)
		return nil
	},
}

var exportOutput string

var modelsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the effective catalog to a JSON or YAML file",
	Long: `Write the effective catalog (built-in profiles plus any configured overrides)
to a file. Edit it and point models_catalog at it to add or adjust models.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOutput == "" {
			return fmt.Errorf("--output is required")
		}
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		if err := ai.WriteProfiles(exportOutput, catalog.Profiles()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %d models to %s\n", catalog.Len(), exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsShowCmd)
	modelsCmd.AddCommand(modelsExportCmd)

	modelsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "path to write (.json, .yaml or .yml)")
}
