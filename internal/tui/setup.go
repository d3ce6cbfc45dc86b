package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/theirongolddev/procdash/internal/config"
	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/pipeline"
	"github.com/theirongolddev/procdash/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run form's bound fields.
type setupValues struct {
	dataDir      string
	topN         string
	theme        string
	rateGreen    string
	rateYellow   string
	onTimeGreen  string
	onTimeYellow string
}

func newSetupValues(cfg config.Config, dataDir string) setupValues {
	th := cfg.Thresholds
	return setupValues{
		dataDir:      dataDir,
		topN:         strconv.Itoa(pipeline.ClampTopN(cfg.General.DefaultTopN)),
		theme:        cfg.Appearance.Theme,
		rateGreen:    formatRatio(th.RateGreen),
		rateYellow:   formatRatio(th.RateYellow),
		onTimeGreen:  formatRatio(th.OnTimeGreen),
		onTimeYellow: formatRatio(th.OnTimeYellow),
	}
}

func formatRatio(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func validateTopN(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n < pipeline.MinTopN || n > pipeline.MaxTopN {
		return fmt.Errorf("must be between %d and %d", pipeline.MinTopN, pipeline.MaxTopN)
	}
	return nil
}

func validateRatio(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("enter a ratio such as 0.9")
	}
	if f < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

// thresholds parses the form's threshold fields. The result still needs
// Validate since the fields are only checked one at a time.
func (v setupValues) thresholds() (model.Thresholds, error) {
	var t model.Thresholds
	fields := []struct {
		raw string
		dst *float64
	}{
		{v.rateGreen, &t.RateGreen},
		{v.rateYellow, &t.RateYellow},
		{v.onTimeGreen, &t.OnTimeGreen},
		{v.onTimeYellow, &t.OnTimeYellow},
	}
	for _, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f.raw), 64)
		if err != nil {
			return t, err
		}
		*f.dst = n
	}
	return t, t.Validate()
}

func newSetupForm(recordCount int, dataDir string, vals *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to procdash").
				Description(fmt.Sprintf("Found %d procurement records in %s.\nA few settings and you're in.", recordCount, dataDir)),
			huh.NewInput().
				Title("Data directory").
				Description("Folder scanned for CSV, TSV and XLSX exports").
				Value(&vals.dataDir),
			huh.NewInput().
				Title("Report list length").
				Description("Top-N and delayed item count").
				Value(&vals.topN).
				Validate(validateTopN),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
		huh.NewGroup(
			huh.NewInput().Title("Achievement: on target at").Value(&vals.rateGreen).Validate(validateRatio),
			huh.NewInput().Title("Achievement: near target at").Value(&vals.rateYellow).Validate(validateRatio),
			huh.NewInput().Title("On-time: on target at").Value(&vals.onTimeGreen).Validate(validateRatio),
			huh.NewInput().Title("On-time: near target at").Value(&vals.onTimeYellow).Validate(validateRatio),
		).Description("Ratios, e.g. 0.9 for 90%. Near must not exceed on target."),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
}

// apply copies the form values onto cfg. Invalid thresholds are skipped and
// reported; the other fields are applied regardless.
func (v setupValues) apply(cfg config.Config) (config.Config, error) {
	cfg.General.DataDir = strings.TrimSpace(v.dataDir)
	if n, err := strconv.Atoi(strings.TrimSpace(v.topN)); err == nil {
		cfg.General.DefaultTopN = pipeline.ClampTopN(n)
	}
	if _, ok := theme.Lookup(v.theme); ok {
		cfg.Appearance.Theme = v.theme
	}
	t, err := v.thresholds()
	if err != nil {
		return cfg, fmt.Errorf("thresholds not saved: %w", err)
	}
	cfg.Thresholds = t
	return cfg, nil
}

// saveSetupConfig applies the completed form to the config and writes it.
func (a *App) saveSetupConfig() {
	cfg, err := a.setupVals.apply(loadConfigOrDefault())
	if err != nil {
		a.notice = err.Error()
	}
	theme.SetActive(cfg.Appearance.Theme)
	if err := config.Save(cfg); err != nil {
		a.notice = "config not saved: " + err.Error()
	}
	a.cfg = cfg
}

// RunSetup runs the setup form on its own, outside the dashboard, and
// returns cfg updated with the answers. It does not save. Rejected
// thresholds are logged and left at their previous values.
func RunSetup(cfg config.Config, dataDir string, recordCount int) (config.Config, error) {
	vals := newSetupValues(cfg, dataDir)
	if err := newSetupForm(recordCount, dataDir, &vals).Run(); err != nil {
		return cfg, err
	}
	next, err := vals.apply(cfg)
	if err != nil {
		slog.Warn("setup kept previous thresholds", "err", err)
	}
	return next, nil
}
