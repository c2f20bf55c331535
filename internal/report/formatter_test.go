package report

import (
	"strings"
	"testing"

	"github.com/finlens/finlens/internal/derive"
	"github.com/finlens/finlens/internal/model"
)

func enriched(t *testing.T, rows []model.RawRow) *model.Statement {
	t.Helper()
	st, err := derive.Enrich(rows)
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	return st
}

func fullRows() []model.RawRow {
	return []model.RawRow{
		{Label: "TOTAL ASSETS", Prior: "1234567", Current: "1400000"},
		{Label: "SHORT-TERM ASSETS", Prior: "400000", Current: "700000"},
		{Label: "SHORT-TERM LIABILITIES", Prior: "200000", Current: "350000"},
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{1234567.6, "1,234,568"},
		{-1500, "-1,500"},
	}

	for _, tt := range tests {
		if got := Money(tt.input); got != tt.want {
			t.Errorf("Money(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTable_Rendering(t *testing.T) {
	st := enriched(t, fullRows())
	table := Table(st)

	if !strings.Contains(table, "| TOTAL ASSETS | 1,234,567 | 1,400,000 |") {
		t.Errorf("Expected money columns with separators, got:\n%s", table)
	}
	if !strings.Contains(table, "75.00%") { // short-term assets growth
		t.Errorf("Expected two-decimal growth percentage, got:\n%s", table)
	}
	if strings.Count(table, "\n") != 2+len(st.Items) {
		t.Errorf("Expected header + separator + one line per row, got:\n%s", table)
	}
}

func TestMetrics_Full(t *testing.T) {
	st := enriched(t, fullRows())
	m := Metrics(st)

	if !m.HasShortTermAssets {
		t.Fatal("Expected short-term assets growth to be present")
	}
	if m.ShortTermAssetsGrowthPct < 74.99 || m.ShortTermAssetsGrowthPct > 75.01 {
		t.Errorf("Expected short-term assets growth 75%%, got %v", m.ShortTermAssetsGrowthPct)
	}
	if !m.Liquidity.Available {
		t.Fatal("Expected liquidity to be available")
	}

	block := MetricsBlock(m)
	if !strings.Contains(block, "Current ratio (current year): 2.00") {
		t.Errorf("Expected current ratio line, got:\n%s", block)
	}
	if strings.Contains(block, NA) {
		t.Errorf("Expected no N/A markers in full metrics, got:\n%s", block)
	}
}

func TestMetricsBlock_NAWhenLiquidityMissing(t *testing.T) {
	st := enriched(t, []model.RawRow{
		{Label: "TOTAL ASSETS", Prior: "1000", Current: "1200"},
		{Label: "FIXED ASSETS", Prior: "600", Current: "700"},
	})
	block := MetricsBlock(Metrics(st))

	if !strings.Contains(block, "Short-term assets growth: N/A") {
		t.Errorf("Expected N/A short-term growth, got:\n%s", block)
	}
	if !strings.Contains(block, "Current ratio (prior year): N/A") ||
		!strings.Contains(block, "Current ratio (current year): N/A") {
		t.Errorf("Expected N/A ratios for both periods, got:\n%s", block)
	}
	if !strings.Contains(block, "Total assets growth: 20.00%") {
		t.Errorf("Expected total assets growth still reported, got:\n%s", block)
	}
}

func TestContext_ContainsTableAndMetrics(t *testing.T) {
	st := enriched(t, fullRows())
	ctx := Context(st)

	if !strings.Contains(ctx, "| TOTAL ASSETS |") {
		t.Error("Expected context to contain the table")
	}
	if !strings.Contains(ctx, "Key metrics:") {
		t.Error("Expected context to contain the key-metrics block")
	}
}
