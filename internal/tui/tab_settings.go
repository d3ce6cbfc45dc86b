package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/config"
	"github.com/theirongolddev/procdash/internal/tui/components"
	"github.com/theirongolddev/procdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// settingsField is one editable config key shown on the settings tab.
type settingsField struct {
	key         string
	label       string
	placeholder string
	value       func(config.Config) string
}

var settingsFields = []settingsField{
	{"general.data_dir", "Data Directory", "./data", func(c config.Config) string { return c.General.DataDir }},
	{"general.default_top_n", "Report Length", "5 (3-20)", func(c config.Config) string { return strconv.Itoa(c.General.DefaultTopN) }},
	{"appearance.theme", "Theme", strings.Join(theme.Names(), ", "), func(c config.Config) string { return c.Appearance.Theme }},
	{"thresholds.rate_green", "Rate On Target", "1.0", func(c config.Config) string { return formatRatio(c.Thresholds.RateGreen) }},
	{"thresholds.rate_yellow", "Rate Near", "0.95", func(c config.Config) string { return formatRatio(c.Thresholds.RateYellow) }},
	{"thresholds.ontime_green", "On-time On Target", "0.95", func(c config.Config) string { return formatRatio(c.Thresholds.OnTimeGreen) }},
	{"thresholds.ontime_yellow", "On-time Near", "0.90", func(c config.Config) string { return formatRatio(c.Thresholds.OnTimeYellow) }},
	{"tui.auto_refresh", "Auto Refresh", "true or false", func(c config.Config) string { return strconv.FormatBool(c.TUI.AutoRefresh) }},
	{"tui.refresh_interval_sec", "Refresh Interval", "60 (seconds, minimum 10)", func(c config.Config) string { return strconv.Itoa(c.TUI.RefreshIntervalSec) }},
	{"export.output_dir", "Export Directory", "(current directory)", func(c config.Config) string { return c.Export.OutputDir }},
	{"export.pdf_font", "PDF Font", "/path/to/NotoSansTC.ttf", func(c config.Config) string { return c.Export.PDFFont }},
}

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	f := settingsFields[a.settings.cursor]
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	ti.Placeholder = f.placeholder
	ti.SetValue(f.value(a.cfg))
	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited value. A rejected value leaves both the
// live settings and the config file untouched.
func (a *App) settingsSave() {
	f := settingsFields[a.settings.cursor]
	val := strings.TrimSpace(a.settings.input.Value())

	cfg, err := config.Set(a.cfg, f.key, val)
	if err != nil {
		a.settings.saveErr = err
		return
	}
	if err := config.Save(cfg); err != nil {
		a.settings.saveErr = err
		return
	}
	a.settings.saveErr = nil

	a.cfg = cfg
	a.autoRefresh = cfg.TUI.AutoRefresh
	a.refreshInterval = refreshIntervalFor(cfg)
	theme.SetActive(cfg.Appearance.Theme)
	a.recompute()
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	innerW := components.CardInnerWidth(cw)

	var formBody strings.Builder
	for i, f := range settingsFields {
		value := f.value(a.cfg)
		if value == "" {
			value = "(not set)"
		}

		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			val := selectedStyle.Render(value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(val)
			if padLen := innerW - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(val); padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Data directory:  ") + valueStyle.Render(a.opts.DataDir) + "\n")
	infoBody.WriteString(labelStyle.Render("Files read:      ") + valueStyle.Render(fmt.Sprintf("%d of %d", a.fileCount-a.fileErrors, a.fileCount)) + "\n")
	infoBody.WriteString(labelStyle.Render("Records loaded:  ") + valueStyle.Render(cli.FormatNumber(int64(len(a.records)))) + "\n")
	infoBody.WriteString(labelStyle.Render("Saved plans:     ") + valueStyle.Render(cli.FormatNumber(int64(a.ledger.Len()))) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:       ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.Path()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
