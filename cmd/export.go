package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/procdash/internal/config"
	"github.com/theirongolddev/procdash/internal/export"
	"github.com/theirongolddev/procdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagExportOut   string
	flagExportTitle string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current view to a file",
}

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Filtered records and pivot as an Excel workbook",
	RunE:  runExportXLSX,
}

var exportPDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Weekly report as a paginated PDF",
	RunE:  runExportPDF,
}

var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Weekly report as JSON (use --out - for stdout)",
	RunE:  runExportJSON,
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&flagExportOut, "out", "o", "", "Output path (default <output_dir>/<prefix>_<buyer>_<week>.<ext>)")
	exportPDFCmd.Flags().StringVar(&flagExportTitle, "title", "", "Document title")
	exportCmd.AddCommand(exportXLSXCmd, exportPDFCmd, exportJSONCmd)
	rootCmd.AddCommand(exportCmd)
}

// outputPath resolves --out, falling back to the default file name in the
// configured output directory.
func outputPath(cfg config.Config, d *dataset, ext string) (string, error) {
	path := flagExportOut
	if path == "" {
		path = filepath.Join(cfg.Export.OutputDir, export.FileName(export.FilePrefix, d.sel, ext))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return path, nil
}

func runExportXLSX(cmd *cobra.Command, _ []string) error {
	d, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	path, err := outputPath(d.cfg, d, "xlsx")
	if err != nil {
		return err
	}
	if err := export.WriteXLSX(path, d.filtered, pipeline.CrossTabulate(d.filtered)); err != nil {
		return err
	}
	fmt.Printf("  Wrote %d records to %s\n", len(d.filtered), path)
	return nil
}

func runExportPDF(cmd *cobra.Command, _ []string) error {
	d, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	path, err := outputPath(d.cfg, d, "pdf")
	if err != nil {
		return err
	}
	meta := export.Meta{
		Title:    flagExportTitle,
		Selector: d.sel,
		FontPath: d.cfg.Export.PDFFont,
	}
	if err := export.WritePDF(path, meta, buildReport(d)); err != nil {
		return err
	}
	fmt.Printf("  Wrote report to %s\n", path)
	return nil
}

func runExportJSON(cmd *cobra.Command, _ []string) error {
	d, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	report := buildReport(d)

	if flagExportOut == "-" {
		return export.WriteJSON(os.Stdout, d.sel, report)
	}
	path, err := outputPath(d.cfg, d, "json")
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.WriteJSON(f, d.sel, report); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("  Wrote report to %s\n", path)
	return nil
}
