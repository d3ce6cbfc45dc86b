package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/procdash/internal/config"
	"github.com/theirongolddev/procdash/internal/pipeline"
	"github.com/theirongolddev/procdash/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	dataDir := resolveDataDir(cfg)

	// Count records so the welcome note can show what was found.
	records := 0
	if files, err := pipeline.Discover(dataDir, flagFiles); err == nil && len(files) > 0 {
		if result, err := pipeline.Load(cmd.Context(), files, nil); err == nil {
			records = len(result.Records)
		}
	}

	next, err := tui.RunSetup(cfg, dataDir, records)
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println("  Setup cancelled; nothing saved.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := config.Save(next); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `procdash setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
