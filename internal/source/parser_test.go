package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/procdash/internal/model"

	"github.com/xuri/excelize/v2"
)

// writeFile creates a temp input file and returns a DiscoveredFile for it.
func writeFile(t *testing.T, name string, lines ...string) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	format, _ := FormatOf(path)
	return DiscoveredFile{Path: path, Name: name, Format: format}
}

func TestParseFile_EnglishHeaders(t *testing.T) {
	df := writeFile(t, "week.csv",
		"date,week,buyer,category,item,qty,amount,target,margin,ontime",
		"2024-01-02,W1,A,X,widget,5,100,120,0.1,1",
		"2024-01-03,W1,B,Y,gadget,2,50,80,0.2,0",
	)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(result.Records))
	}

	r := result.Records[0]
	if r.Buyer != "A" || r.Category != "X" || r.Item != "widget" {
		t.Errorf("text fields = %+v", r)
	}
	if r.Amount != 100 || r.Target != 120 || r.Qty != 5 || r.Margin != 0.1 {
		t.Errorf("numeric fields = %+v", r)
	}
	if !r.OnTime {
		t.Error("OnTime = false, want true for \"1\"")
	}
	if result.Records[1].OnTime {
		t.Error("OnTime = true, want false for \"0\"")
	}
}

func TestParseFile_LocalizedHeadersWithBOM(t *testing.T) {
	df := writeFile(t, "export.csv",
		"\ufeff日期,週別,採購,類別,品名,數量,金額,目標,毛利率,交期",
		"2024-01-02,W2,A,X,widget,1,300,250,0.3,準時",
		"2024-01-02,W2,A,X,bolt,1,10,10,0.3,延遲",
	)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(result.Records))
	}
	if result.Records[0].Date != "2024-01-02" {
		t.Errorf("Date = %q, BOM not stripped from first header", result.Records[0].Date)
	}
	if !result.Records[0].OnTime || result.Records[1].OnTime {
		t.Errorf("OnTime = %v/%v, want true/false", result.Records[0].OnTime, result.Records[1].OnTime)
	}
}

func TestParseFile_MissingAndBadCells(t *testing.T) {
	df := writeFile(t, "short.csv",
		"buyer,amount,notes,target",
		"A,abc,ignored",
		",,,",
		"B,7",
	)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Records = %d, want 2 (blank row skipped)", len(result.Records))
	}
	if result.Records[0].Amount != 0 {
		t.Errorf("Amount = %v, want 0 for non-numeric", result.Records[0].Amount)
	}
	if result.Records[1].Amount != 7 || result.Records[1].Target != 0 {
		t.Errorf("short row = %+v", result.Records[1])
	}
}

func TestParseFile_TSV(t *testing.T) {
	df := writeFile(t, "week.tsv",
		"buyer\tamount\tontime",
		"A\t12.5\t1",
	)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 1 || result.Records[0].Amount != 12.5 {
		t.Errorf("Records = %+v", result.Records)
	}
}

func TestParseFile_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	result := ParseFile(DiscoveredFile{Path: path, Name: "empty.csv", Format: FormatCSV})
	if result.Err == nil {
		t.Fatal("expected error for file without header")
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	result := ParseFile(DiscoveredFile{Path: "/nonexistent/file.csv", Name: "file.csv", Format: FormatCSV})
	if result.Err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseFile_XLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "week.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"日期", "週別", "採購", "類別", "品名", "數量", "金額", "目標", "毛利率", "交期"},
		{"2024-01-02", "W1", "A", "X", "widget", 3, 150, 200, 0.15, "準時"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	result := ParseFile(DiscoveredFile{Path: path, Name: "week.xlsx", Format: FormatXLSX})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("Records = %d, want 1", len(result.Records))
	}
	r := result.Records[0]
	if r.Buyer != "A" || r.Amount != 150 || r.Target != 200 || !r.OnTime {
		t.Errorf("record = %+v", r)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.xlsx", "notes.txt", ".hidden.csv", "~$lock.xlsx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	sub := filepath.Join(dir, "2024")
	if err := os.MkdirAll(sub, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "c.tsv"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	got := strings.Join(names, ",")
	if got != "c.tsv,a.xlsx,b.csv" {
		t.Errorf("ScanDir names = %s, want c.tsv,a.xlsx,b.csv", got)
	}
}

func TestScanDir_Missing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("files = %v, want none", files)
	}
}

func TestHeaderAliasesCoverColumnTitles(t *testing.T) {
	for i, title := range model.ColumnTitles {
		f, ok := mapHeader(title)
		if !ok || f != model.Fields[i] {
			t.Errorf("mapHeader(%q) = %q, %v; want %q", title, f, ok, model.Fields[i])
		}
		f, ok = mapHeader(" " + strings.ToUpper(string(model.Fields[i])) + " ")
		if !ok || f != model.Fields[i] {
			t.Errorf("mapHeader(upper %s) = %q, %v", model.Fields[i], f, ok)
		}
	}
}

func TestReadDelimited_DropsUnknownColumns(t *testing.T) {
	raw, err := ReadDelimited(strings.NewReader("buyer,notes,amount\nA,hello,5\n"), ',')
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 1 {
		t.Fatalf("rows = %d, want 1", len(raw))
	}
	if _, ok := raw[0]["notes"]; ok {
		t.Error("unknown column should not be carried into raw record")
	}
	if raw[0][string(model.FieldBuyer)] != "A" {
		t.Errorf("buyer = %v, want A", raw[0][string(model.FieldBuyer)])
	}
}
