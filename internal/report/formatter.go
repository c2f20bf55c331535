// Package report renders an enriched statement for people and for the
// language-model context block. It is a pure formatter: nothing here
// touches the network or mutates the statement.
package report

import (
	"fmt"
	"strings"

	"github.com/finlens/finlens/internal/model"
)

// NA marks a metric that could not be computed from the statement
const NA = "N/A"

// Metrics extracts the compact key-metrics excerpt from an enriched
// statement using the lookup indices the engine resolved.
func Metrics(st *model.Statement) model.KeyMetrics {
	m := model.KeyMetrics{
		TotalAssetsGrowthPct: st.Anchor().GrowthPct,
		Liquidity:            st.Liquidity,
	}
	if st.ShortTermAssetsIndex >= 0 {
		m.HasShortTermAssets = true
		m.ShortTermAssetsGrowthPct = st.Items[st.ShortTermAssetsIndex].GrowthPct
	}
	return m
}

// Table renders the full statement as a markdown table. Money values are
// shown as integers with thousands separators, percentages with two
// decimals, matching the classic statement-analysis layout.
func Table(st *model.Statement) string {
	var b strings.Builder

	b.WriteString("| Item | Prior Year | Current Year | Growth (%) | Prior Weight (%) | Current Weight (%) |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|\n")
	for _, item := range st.Items {
		fmt.Fprintf(&b, "| %s | %s | %s | %.2f%% | %.2f%% | %.2f%% |\n",
			item.Label,
			Money(item.Prior),
			Money(item.Current),
			item.GrowthPct,
			item.PriorWeightPct,
			item.CurrentWeightPct,
		)
	}
	return b.String()
}

// MetricsBlock renders the key-metrics excerpt as readable lines.
// Unavailable metrics render as N/A rather than being omitted.
func MetricsBlock(m model.KeyMetrics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total assets growth: %.2f%%\n", m.TotalAssetsGrowthPct)

	if m.HasShortTermAssets {
		fmt.Fprintf(&b, "Short-term assets growth: %.2f%%\n", m.ShortTermAssetsGrowthPct)
	} else {
		fmt.Fprintf(&b, "Short-term assets growth: %s\n", NA)
	}

	if m.Liquidity.Available {
		fmt.Fprintf(&b, "Current ratio (prior year): %.2f\n", m.Liquidity.Prior)
		fmt.Fprintf(&b, "Current ratio (current year): %.2f\n", m.Liquidity.Current)
	} else {
		fmt.Fprintf(&b, "Current ratio (prior year): %s\n", NA)
		fmt.Fprintf(&b, "Current ratio (current year): %s\n", NA)
	}

	return b.String()
}

// Context builds the text block handed to the language-model boundary:
// the full table plus the key-metrics excerpt. This is the only thing
// that crosses from the engine to the external collaborator.
func Context(st *model.Statement) string {
	var b strings.Builder
	b.WriteString(Table(st))
	b.WriteString("\nKey metrics:\n")
	b.WriteString(MetricsBlock(Metrics(st)))
	return b.String()
}

// Money formats a monetary value as an integer with thousands
// separators ("1,234,567"). The value is rounded half away from zero.
func Money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	whole := int64(v + 0.5)
	s := fmt.Sprintf("%d", whole)

	// Insert separators every three digits from the right
	n := len(s)
	if n > 3 {
		var b strings.Builder
		first := n % 3
		if first > 0 {
			b.WriteString(s[:first])
		}
		for i := first; i < n; i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}

	if neg {
		return "-" + s
	}
	return s
}
