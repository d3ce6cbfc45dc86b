package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/procdash/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Update one setting, e.g. thresholds.rate_green 1.0",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configSetCmd.Long = "Keys: " + strings.Join(config.Keys(), ", ")
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory:    %s\n", config.DataDir(cfg))
	fmt.Printf("    Default top N:     %d\n", cfg.General.DefaultTopN)
	fmt.Println()

	t := cfg.Thresholds
	fmt.Println("  [Thresholds]")
	fmt.Printf("    Rate green/yellow:    %.3f / %.3f\n", t.RateGreen, t.RateYellow)
	fmt.Printf("    On-time green/yellow: %.3f / %.3f\n", t.OnTimeGreen, t.OnTimeYellow)
	if err := t.Validate(); err != nil {
		fmt.Printf("    Warning: %v\n", err)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh:  %v (every %ds)\n", cfg.TUI.AutoRefresh, cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Export]")
	outDir := cfg.Export.OutputDir
	if outDir == "" {
		outDir = "."
	}
	fmt.Printf("    Output directory: %s\n", outDir)
	if cfg.Export.PDFFont != "" {
		fmt.Printf("    PDF font:         %s\n", cfg.Export.PDFFont)
	} else {
		fmt.Println("    PDF font:         built-in (Latin only)")
	}

	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg, err = config.Set(cfg, key, value)
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  %s = %s\n", key, value)
	return nil
}
