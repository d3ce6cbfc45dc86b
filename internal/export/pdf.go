package export

import (
	"fmt"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/model"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 15.0
	bodyWidth  = 210 - 2*pageMargin
	lineHeight = 6.0
)

// pdfWriter wraps fpdf with the report's fonts and text encoding.
type pdfWriter struct {
	pdf     *fpdf.Fpdf
	family  string
	unicode bool
	tr      func(string) string
}

func newPDFWriter(meta Meta) *pdfWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AliasNbPages("")

	w := &pdfWriter{pdf: pdf, family: "Helvetica"}
	if meta.FontPath != "" {
		pdf.AddUTF8Font("report", "", meta.FontPath)
		pdf.AddUTF8Font("report", "B", meta.FontPath)
		w.family = "report"
		w.unicode = true
	} else {
		w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		w.font("", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d / {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return w
}

func (w *pdfWriter) text(s string) string {
	if w.unicode {
		return s
	}
	return w.tr(s)
}

func (w *pdfWriter) font(style string, size float64) {
	w.pdf.SetFont(w.family, style, size)
}

func (w *pdfWriter) heading(s string) {
	w.pdf.Ln(3)
	w.font("B", 12)
	w.pdf.CellFormat(0, 8, w.text(s), "B", 1, "L", false, 0, "")
	w.pdf.Ln(1)
}

func (w *pdfWriter) kv(label, value string) {
	w.font("", 10)
	w.pdf.CellFormat(55, lineHeight, w.text(label), "", 0, "L", false, 0, "")
	w.pdf.CellFormat(0, lineHeight, w.text(value), "", 1, "L", false, 0, "")
}

// table draws a simple grid. The first textCols columns are left-aligned,
// the rest right-aligned.
func (w *pdfWriter) table(headers []string, widths []float64, rows [][]string, textCols int) {
	w.font("B", 9)
	w.pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		w.pdf.CellFormat(widths[i], lineHeight, w.text(h), "1", 0, "C", true, 0, "")
	}
	w.pdf.Ln(-1)

	w.font("", 9)
	if len(rows) == 0 {
		w.pdf.CellFormat(bodyWidth, lineHeight, "-", "1", 1, "C", false, 0, "")
		return
	}
	for _, row := range rows {
		for i, cell := range row {
			align := "R"
			if i < textCols {
				align = "L"
			}
			w.pdf.CellFormat(widths[i], lineHeight, w.text(cell), "1", 0, align, false, 0, "")
		}
		w.pdf.Ln(-1)
	}
}

func (w *pdfWriter) tierText(t model.Tier) string {
	if w.unicode {
		return cli.TierChip(t)
	}
	return t.String()
}

// WritePDF renders report as a paginated A4 document at path.
func WritePDF(path string, meta Meta, report model.Report) error {
	w := newPDFWriter(meta)
	pdf := w.pdf
	pdf.SetTitle(meta.Title, true)
	pdf.SetCreator("procdash", false)
	pdf.AddPage()

	title := meta.Title
	if title == "" {
		title = FilePrefix
		if !w.unicode {
			title = "Procurement Weekly Report"
		}
	}
	scope := model.ScopeFor(meta.Selector)
	w.font("B", 16)
	pdf.CellFormat(0, 10, w.text(title), "", 1, "C", false, 0, "")
	w.font("", 10)
	pdf.CellFormat(0, lineHeight, w.text(fmt.Sprintf("Buyer: %s   Week: %s", scope.Buyer, cli.FormatWeek(scope.Week))), "", 1, "C", false, 0, "")

	k := report.KPIs
	w.heading("KPIs")
	w.kv("Records", cli.FormatNumber(int64(k.Records)))
	w.kv("Total amount", cli.FormatMoney(k.TotalAmount))
	w.kv("Total target", cli.FormatMoney(k.TotalTarget))
	w.kv("Achievement rate", cli.FormatPercent(k.AchievementRate)+"  "+w.tierText(report.RateTier))
	w.kv("On-time rate", cli.FormatPercent(k.OnTimeRate)+"  "+w.tierText(report.OnTimeTier))
	w.kv("Average margin", cli.FormatPercent(k.AverageMargin))
	for _, h := range report.Highlights {
		w.kv("", h.Verdict)
	}

	w.heading("Category contribution")
	var catRows [][]string
	for _, c := range report.CategoryContribution {
		catRows = append(catRows, []string{c.Category, cli.FormatMoney(c.Amount), cli.FormatShare(c.Share)})
	}
	w.table([]string{"Category", "Amount", "Share"}, []float64{100, 50, 30}, catRows, 1)

	itemWidths := []float64{25, 30, 35, 60, 30}
	itemHeaders := []string{"Date", "Buyer", "Category", "Item", "Amount"}

	w.heading(fmt.Sprintf("Top %d items", report.TopN))
	w.table(itemHeaders, itemWidths, itemRows(report.TopItems), 4)

	w.heading("Delayed items")
	w.table(itemHeaders, itemWidths, itemRows(report.DelayedItems), 4)

	w.heading("Plan")
	ps := report.PlanSummary
	var planRows [][]string
	for _, r := range ps.Rows {
		planRows = append(planRows, []string{
			r.Category, cli.FormatMoney(r.Target), cli.FormatMoney(r.Actual),
			cli.FormatPercent(r.Rate), w.tierText(r.Tier),
		})
	}
	w.table([]string{"Category", "Target", "Actual", "Rate", "Tier"}, []float64{60, 30, 30, 25, 35}, planRows, 1)
	w.kv("Plan total", fmt.Sprintf("%s / %s  (%s)", cli.FormatMoney(ps.Actual), cli.FormatMoney(ps.Target), cli.FormatPercent(ps.Rate)))

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func itemRows(records []model.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Date, r.Buyer, r.Category, r.Item, cli.FormatMoney(r.Amount)})
	}
	return rows
}
