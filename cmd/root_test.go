package cmd

import (
	"testing"

	"github.com/theirongolddev/procdash/internal/config"
	"github.com/theirongolddev/procdash/internal/pipeline"
)

func TestTopN(t *testing.T) {
	top := rootCmd.PersistentFlags().Lookup("top")
	t.Cleanup(func() {
		flagTop = 0
		top.Changed = false
	})

	cfg := config.DefaultConfig()
	if got := topN(cfg); got != cfg.General.DefaultTopN {
		t.Fatalf("unset --top = %d, want config default %d", got, cfg.General.DefaultTopN)
	}

	tests := []struct {
		value string
		want  int
	}{
		{"0", pipeline.MinTopN},
		{"8", 8},
		{"50", pipeline.MaxTopN},
	}
	for _, tt := range tests {
		if err := rootCmd.PersistentFlags().Set("top", tt.value); err != nil {
			t.Fatal(err)
		}
		if got := topN(cfg); got != tt.want {
			t.Errorf("--top %s = %d, want %d", tt.value, got, tt.want)
		}
	}
}
