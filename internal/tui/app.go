// Package tui provides the interactive Bubble Tea dashboard for procdash.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/config"
	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/pipeline"
	"github.com/theirongolddev/procdash/internal/store"
	"github.com/theirongolddev/procdash/internal/tui/components"
	"github.com/theirongolddev/procdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the first load finishes.
type DataLoadedMsg struct {
	Data     loadedData
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background data refresh completes.
type RefreshDataMsg struct {
	Data     loadedData
	Err      error
	LoadTime time.Duration
}

// loadedData is everything one load produces.
type loadedData struct {
	Records    []model.Record
	Plans      map[model.Scope][]model.PlanRow
	Files      int
	FileErrors int
}

// Options configures the dashboard from command-line flags.
type Options struct {
	DataDir string
	Files   []string
	Buyer   string
	Week    string
	TopN    int
	TopNSet bool // false means use the configured default
	NoCache bool
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	records    []model.Record
	ledger     pipeline.Ledger
	loaded     bool
	loadTime   time.Duration
	fileCount  int
	fileErrors int
	notice     string // last load or save problem, shown in the status bar

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	cfg  config.Config
	opts Options

	// Filter state and its options, drawn from the full record set
	sel    model.Selector
	buyers []string
	weeks  []string

	// Pre-computed for current filter
	filtered   []model.Record
	listed     []model.Record // filtered, narrowed by the records search
	kpis       model.KPIs
	rateTier   model.Tier
	onTimeTier model.Tier
	categories []model.GroupTotal
	weekly     []model.GroupTotal
	buyerSums  []model.GroupTotal
	crossTab   model.CrossTab
	report     model.Report

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	recState recordsState
	settings settingsState
	plan     planState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues // huh writes through this; App itself is copied
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	minRefreshSec    = 10
)

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabBreakdown
	tabRecords
	tabReport
	tabPlan
	tabSettings
)

// loadConfigOrDefault loads config, returning defaults on error so the TUI
// can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("config unreadable, using defaults", "err", err)
	}
	return cfg
}

func refreshIntervalFor(cfg config.Config) time.Duration {
	sec := cfg.TUI.RefreshIntervalSec
	if sec < minRefreshSec {
		sec = minRefreshSec
	}
	return time.Duration(sec) * time.Second
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	cfg := loadConfigOrDefault()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	if opts.DataDir == "" {
		opts.DataDir = config.DataDir(cfg)
	}
	buyer := opts.Buyer
	if buyer == "" {
		buyer = model.AllBuyers
	}

	return App{
		cfg:             cfg,
		opts:            opts,
		sel:             model.Selector{Buyer: buyer, Week: opts.Week},
		ledger:          pipeline.NewLedger(nil),
		needSetup:       !config.Exists(),
		autoRefresh:     cfg.TUI.AutoRefresh,
		refreshInterval: refreshIntervalFor(cfg),
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

// topN is the effective list length for the report.
func (a App) topN() int {
	if a.opts.TopNSet {
		return pipeline.ClampTopN(a.opts.TopN)
	}
	return pipeline.ClampTopN(a.cfg.General.DefaultTopN)
}

func (a App) scope() model.Scope {
	return model.ScopeFor(a.sel)
}

// applyData swaps in a freshly loaded dataset.
func (a *App) applyData(d loadedData) {
	a.records = d.Records
	a.ledger = pipeline.NewLedger(d.Plans)
	a.fileCount = d.Files
	a.fileErrors = d.FileErrors
	a.buyers = pipeline.SortedValues(a.records, model.FieldBuyer)
	a.weeks = pipeline.SortedValues(a.records, model.FieldWeek)
	a.recompute()
}

func (a *App) recompute() {
	t := a.cfg.Thresholds

	a.filtered = pipeline.ApplyFilter(a.records, a.sel)
	a.listed = a.recState.apply(a.filtered)
	a.kpis = pipeline.ComputeKPIs(a.filtered, t)
	a.rateTier = pipeline.ClassifyRate(a.kpis.AchievementRate, t)
	a.onTimeTier = pipeline.ClassifyOnTime(a.kpis.OnTimeRate, t)
	a.categories = pipeline.CategoryTotals(a.filtered)
	a.weekly = pipeline.WeeklyTotals(a.filtered)
	a.buyerSums = pipeline.BuyerTotals(a.filtered)
	a.crossTab = pipeline.CrossTabulate(a.filtered)
	a.report = pipeline.BuildReport(a.filtered, t, a.ledger.Get(a.scope()), a.topN())

	if a.recState.cursor >= len(a.listed) {
		a.recState.cursor = len(a.listed) - 1
	}
	if a.recState.cursor < 0 {
		a.recState.cursor = 0
	}
}

// cycleOption steps through anyValue followed by options, wrapping around.
// An unknown current value starts from anyValue.
func cycleOption(options []string, anyValue, current string, delta int) string {
	all := append([]string{anyValue}, options...)
	idx := 0
	for i, o := range all {
		if o == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(all)) % len(all)
	return all[idx]
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.plan.form != nil {
			a.plan.form = a.plan.form.WithWidth(a.contentWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.modal() {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabRecords {
				a.recState.move(-1, len(a.listed))
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabRecords {
				a.recState.move(1, len(a.listed))
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}

		// Forms and text inputs own the keyboard while open.
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.plan.form != nil {
			return a.updatePlanForm(msg)
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}
		if a.activeTab == tabRecords && a.recState.searching {
			return a.updateRecordsSearch(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		if handled, m, cmd := a.updateTabKeys(key); handled {
			return m, cmd
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			if !a.refreshing {
				a.refreshing = true
				return a, refreshDataCmd(a.opts)
			}
			return a, nil
		case "R":
			a.autoRefresh = !a.autoRefresh
			cfg := loadConfigOrDefault()
			cfg.TUI.AutoRefresh = a.autoRefresh
			if err := config.Save(cfg); err != nil {
				a.notice = "config not saved: " + err.Error()
			}
			return a, nil
		case "]", "[":
			delta := 1
			if key == "[" {
				delta = -1
			}
			a.sel.Buyer = cycleOption(a.buyers, model.AllBuyers, a.sel.Buyer, delta)
			a.recompute()
			return a, nil
		case "}", "{":
			delta := 1
			if key == "{" {
				delta = -1
			}
			a.sel.Week = cycleOption(a.weeks, "", a.sel.Week, delta)
			a.recompute()
			return a, nil
		case "0":
			a.sel = model.Selector{Buyer: model.AllBuyers}
			a.recompute()
			return a, nil
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}

		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		if msg.Err != nil {
			a.notice = "load failed: " + msg.Err.Error()
		}
		a.applyData(msg.Data)

		if a.needSetup {
			vals := newSetupValues(a.cfg, a.opts.DataDir)
			a.setupVals = &vals
			a.setupForm = newSetupForm(len(a.records), a.opts.DataDir, a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.opts))
		}
		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		if msg.Err != nil {
			// Keep showing the previous data.
			a.notice = "refresh failed: " + msg.Err.Error()
			return a, nil
		}
		a.notice = ""
		a.loadTime = msg.LoadTime
		a.applyData(msg.Data)
		return a, nil
	}

	// Forward unhandled messages (cursor blinks etc.) to an open form.
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.plan.form != nil {
		return a.updatePlanForm(msg)
	}
	return a, nil
}

// modal reports whether a form currently owns input.
func (a App) modal() bool {
	return (a.needSetup && a.setupForm != nil) || a.plan.form != nil
}

// updateTabKeys handles keys specific to the active tab.
func (a App) updateTabKeys(key string) (bool, tea.Model, tea.Cmd) {
	switch a.activeTab {
	case tabRecords:
		switch key {
		case "/":
			a.recState.searching = true
			a.recState.searchInput = newSearchInput(a.recState.query)
			a.recState.searchInput.Focus()
			return true, a, a.recState.searchInput.Cursor.BlinkCmd()
		case "esc":
			if a.recState.query != "" {
				a.recState.query = ""
				a.recState.cursor = 0
				a.recState.offset = 0
				a.recompute()
			}
			return true, a, nil
		case "j", "down":
			a.recState.move(1, len(a.listed))
			return true, a, nil
		case "k", "up":
			a.recState.move(-1, len(a.listed))
			return true, a, nil
		case "g":
			a.recState.cursor = 0
			a.recState.offset = 0
			return true, a, nil
		case "G":
			a.recState.cursor = max(0, len(a.listed)-1)
			return true, a, nil
		case "ctrl+d", "ctrl+u":
			half := max(1, (a.height-10)/2)
			if key == "ctrl+u" {
				half = -half
			}
			a.recState.move(half, len(a.listed))
			return true, a, nil
		}

	case tabPlan:
		switch key {
		case "e", "enter":
			cmd := a.openPlanForm()
			return true, a, cmd
		case "D":
			a.deletePlan()
			return true, a, nil
		}

	case tabSettings:
		switch key {
		case "j", "down":
			if a.settings.cursor < len(settingsFields)-1 {
				a.settings.cursor++
			}
			return true, a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return true, a, nil
		case "enter":
			m, cmd := a.settingsStartEdit()
			return true, m, cmd
		}
	}
	return false, a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		if a.opts.DataDir != a.setupVals.dataDir && len(a.opts.Files) == 0 {
			a.opts.DataDir = a.setupVals.dataDir
			a.refreshing = true
			a.recompute()
			return a, refreshDataCmd(a.opts)
		}
		a.recompute()
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  procdash needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ procdash"))
	b.WriteString(subtitleStyle.Render(" · Procurement Weekly"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := max(20, min(40, a.width-30))
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Parsing files\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Scanning " + a.opts.DataDir + "..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

type binding struct{ key, desc string }

var helpSections = []struct {
	title    string
	bindings []binding
}{
	{"Navigation", []binding{
		{"o b c t l x", "Jump to tab"},
		{"← → Tab", "Previous / Next tab"},
		{"j k", "Move in lists"},
		{"^d ^u", "Half-page scroll"},
	}},
	{"Filters", []binding{
		{"[ ]", "Previous / Next buyer"},
		{"{ }", "Previous / Next week"},
		{"0", "Reset to all buyers, all weeks"},
		{"/", "Search records"},
	}},
	{"Actions", []binding{
		{"e", "Edit plan (Plan tab)"},
		{"D", "Delete plan (Plan tab)"},
		{"Enter", "Edit / Confirm"},
		{"Esc", "Back / Cancel"},
		{"r", "Refresh data"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}},
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range helpSections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-12s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + filter pill
	pill := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	scope := a.scope()
	filterStr := pill.Render(" buyer ") + accent.Render(scope.Buyer) +
		pill.Render(" │ week ") + accent.Render(cli.FormatWeek(scope.Week)) +
		pill.Render(fmt.Sprintf(" │ %s records", cli.FormatNumber(int64(len(a.filtered)))))
	if a.recState.query != "" {
		filterStr += pill.Render(" │ search ") + accent.Render(a.recState.query)
	}

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filterStr)

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		DataAge:     fmt.Sprintf("%.1fs", a.loadTime.Seconds()),
		Notice:      a.notice,
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
	})

	// 3. Content zone
	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch {
	case len(a.records) == 0 && a.activeTab != tabSettings:
		content = a.renderNoData(cw)
	default:
		switch a.activeTab {
		case tabOverview:
			content = a.renderOverviewTab(cw)
		case tabBreakdown:
			content = a.renderBreakdownTab(cw)
		case tabRecords:
			content = a.renderRecordsTab(cw, contentH)
		case tabReport:
			content = a.renderReportTab(cw)
		case tabPlan:
			content = a.renderPlanTab(cw)
		case tabSettings:
			content = a.renderSettingsTab(cw)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderNoData(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	body := muted.Render("No procurement records found in "+a.opts.DataDir) + "\n" +
		muted.Render("Drop CSV, TSV or XLSX files there and press r to reload.")
	if a.fileErrors > 0 {
		body += "\n" + muted.Render(fmt.Sprintf("%d of %d files could not be read.", a.fileErrors, a.fileCount))
	}
	return components.ContentCard("No data", body, cw)
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadAll runs the shared load path: cache-assisted when possible, full
// parse otherwise. Plans come from the same store.
func loadAll(opts Options, progressFn pipeline.ProgressFunc) (loadedData, error) {
	ctx := context.Background()
	files, err := pipeline.Discover(opts.DataDir, opts.Files)
	if err != nil {
		return loadedData{}, err
	}

	var result *pipeline.LoadResult
	var plans map[model.Scope][]model.PlanRow

	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		slog.Warn("cache unavailable", "err", err)
	} else {
		defer func() { _ = cache.Close() }()
		if p, err := cache.LoadLedger(); err == nil {
			plans = p
		} else {
			slog.Warn("plans unavailable", "err", err)
		}
		if !opts.NoCache {
			if cr, err := pipeline.LoadWithCache(ctx, files, cache, progressFn); err == nil {
				result = &cr.LoadResult
			} else {
				slog.Debug("cache-assisted load failed, doing full parse", "err", err)
			}
		}
	}

	if result == nil {
		result, err = pipeline.Load(ctx, files, progressFn)
		if err != nil {
			return loadedData{}, err
		}
	}
	if result.TotalFiles > 0 && result.ParsedFiles == 0 {
		return loadedData{}, fmt.Errorf("none of %d files could be parsed", result.TotalFiles)
	}

	return loadedData{
		Records:    result.Records,
		Plans:      plans,
		Files:      result.TotalFiles,
		FileErrors: result.FileErrors,
	}, nil
}

// loadDataCmd starts the data loading pipeline in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; a dropped update
			// is superseded by the next one.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			data, err := loadAll(opts, progressFn)
			sub <- DataLoadedMsg{Data: data, Err: err, LoadTime: time.Since(start)}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads data in the background without progress UI.
func refreshDataCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		data, err := loadAll(opts, nil)
		return RefreshDataMsg{Data: data, Err: err, LoadTime: time.Since(start)}
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes use the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}
