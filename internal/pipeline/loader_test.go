package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/procdash/internal/source"
	"github.com/theirongolddev/procdash/internal/store"
)

const testHeader = "date,week,buyer,category,item,qty,amount,target,margin,ontime"

func writeCSV(t testing.TB, dir, name string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	body := testHeader + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FileThenRowOrder(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 12; i++ {
		writeCSV(t, dir, fmt.Sprintf("w%02d.csv", i),
			fmt.Sprintf("2024-01-01,W%02d,A,X,first,1,%d,10,0.1,1", i, i),
			fmt.Sprintf("2024-01-01,W%02d,A,X,second,1,%d,10,0.1,0", i, i),
		)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignored"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, err := Discover(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	var calls, badTotals atomic.Int32
	result, err := Load(context.Background(), files, func(current, total int) {
		calls.Add(1)
		if total != 12 {
			badTotals.Add(1)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.TotalFiles != 12 || result.ParsedFiles != 12 || result.FileErrors != 0 {
		t.Errorf("counts = %d/%d/%d", result.TotalFiles, result.ParsedFiles, result.FileErrors)
	}
	if calls.Load() != 12 || badTotals.Load() != 0 {
		t.Errorf("progress calls = %d (bad totals %d), want 12", calls.Load(), badTotals.Load())
	}
	if len(result.Records) != 24 {
		t.Fatalf("records = %d, want 24", len(result.Records))
	}
	for i := 0; i < 12; i++ {
		first, second := result.Records[2*i], result.Records[2*i+1]
		wantWeek := fmt.Sprintf("W%02d", i)
		if first.Week != wantWeek || first.Item != "first" || second.Item != "second" {
			t.Errorf("records[%d..] = %s/%s, %s; want %s first, second", 2*i, first.Week, first.Item, second.Item, wantWeek)
		}
	}
}

func TestLoad_FileErrorsDoNotAbort(t *testing.T) {
	dir := t.TempDir()
	good := writeCSV(t, dir, "good.csv", "2024-01-01,W1,A,X,item,1,5,10,0.1,1")
	files := source.Discover([]string{good, filepath.Join(dir, "missing.csv")})

	result, err := Load(context.Background(), files, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.ParsedFiles != 1 || result.FileErrors != 1 || len(result.Errors) != 1 {
		t.Errorf("parsed=%d errors=%d", result.ParsedFiles, result.FileErrors)
	}
	if len(result.Records) != 1 {
		t.Errorf("records = %d, want 1", len(result.Records))
	}
}

func TestLoad_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "a.csv", "2024-01-01,W1,A,X,item,1,5,10,0.1,1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, source.Discover([]string{path}), nil); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestLoadWithCache(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "2024-01-01,W1,A,X,a1,1,100,10,0.1,1")
	b := writeCSV(t, dir, "b.csv", "2024-01-01,W1,B,Y,b1,1,200,10,0.1,0")

	cache, err := store.Open(filepath.Join(t.TempDir(), "procdash.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	files, err := Discover(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	first, err := LoadWithCache(context.Background(), files, cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.Reparsed != 2 || first.CacheHits != 0 {
		t.Errorf("first run reparsed=%d hits=%d, want 2/0", first.Reparsed, first.CacheHits)
	}
	if first.BatchID == "" {
		t.Error("BatchID is empty")
	}

	// Rewrite b with a different size and a later mtime.
	writeCSV(t, dir, "b.csv", "2024-01-01,W1,B,Y,b1,1,200,10,0.1,0", "2024-01-02,W1,B,Y,b2,1,300,10,0.1,1")
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(b, later, later); err != nil {
		t.Fatal(err)
	}

	second, err := LoadWithCache(context.Background(), files, cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if second.Reparsed != 1 || second.CacheHits != 1 {
		t.Errorf("second run reparsed=%d hits=%d, want 1/1", second.Reparsed, second.CacheHits)
	}
	if second.BatchID == first.BatchID {
		t.Error("batch id reused across runs")
	}

	var items []string
	for _, r := range second.Records {
		items = append(items, r.Item)
	}
	if got := strings.Join(items, ","); got != "a1,b1,b2" {
		t.Errorf("items = %s, want a1,b1,b2", got)
	}

	imp, ok, err := cache.LastImport()
	if err != nil || !ok {
		t.Fatalf("LastImport ok=%v err=%v", ok, err)
	}
	if imp.BatchID != second.BatchID || imp.Records != 3 {
		t.Errorf("LastImport = %+v", imp)
	}

	fresh, err := Load(context.Background(), files, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh.Records) != len(second.Records) {
		t.Fatalf("fresh records = %d, cached = %d", len(fresh.Records), len(second.Records))
	}
	for i := range fresh.Records {
		if fresh.Records[i] != second.Records[i] {
			t.Errorf("record %d differs: fresh %+v cached %+v", i, fresh.Records[i], second.Records[i])
		}
	}
}

func BenchmarkLoad(b *testing.B) {
	dir := b.TempDir()
	rows := make([]string, 500)
	for i := range rows {
		rows[i] = fmt.Sprintf("2024-01-01,W%d,B%d,C%d,item%d,1,%d,100,0.1,1", i%5, i%7, i%11, i, i)
	}
	for i := 0; i < 16; i++ {
		writeCSV(b, dir, fmt.Sprintf("f%02d.csv", i), rows...)
	}
	files, err := Discover(dir, nil)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(context.Background(), files, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCrossTabulate(b *testing.B) {
	dir := b.TempDir()
	rows := make([]string, 5000)
	for i := range rows {
		rows[i] = fmt.Sprintf("2024-01-01,W%d,B%d,C%d,item%d,1,%d,100,0.1,1", i%5, i%7, i%11, i, i)
	}
	path := writeCSV(b, dir, "big.csv", rows...)
	result := source.ParseFile(source.Discover([]string{path})[0])

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CrossTabulate(result.Records)
	}
}
