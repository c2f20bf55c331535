// Package derive implements the financial derivation engine: a pure
// transformation from raw statement rows to an enriched statement with
// growth rates, composition weights and the current liquidity ratio.
package derive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/finlens/finlens/internal/model"
)

// zeroGuard replaces a zero denominator so ratios stay finite. Kept at
// 1e-9 for compatibility with prior analyses; results built on it are
// large approximations, not an "undefined" signal.
const zeroGuard = 1e-9

// ErrMissingAnchorRow is returned when no row matches a total-assets
// label, which leaves the composition weights without a denominator.
var ErrMissingAnchorRow = errors.New("no total-assets row found in statement")

// Enrich derives growth, composition weights and the liquidity ratio for
// the given rows using the standard English labels. Row order is
// preserved and identical input always yields identical output.
func Enrich(rows []model.RawRow) (*model.Statement, error) {
	return EnrichWithLabels(rows, model.DefaultLabels())
}

// EnrichWithLabels is Enrich with caller-supplied label substrings.
func EnrichWithLabels(rows []model.RawRow, labels model.LabelConfig) (*model.Statement, error) {
	items := make([]model.LineItem, len(rows))
	for i, row := range rows {
		items[i] = model.LineItem{
			Label:   row.Label,
			Prior:   coerceNumber(row.Prior),
			Current: coerceNumber(row.Current),
		}
	}

	// Growth rate per row, independent of any anchor
	for i := range items {
		items[i].GrowthPct = (items[i].Current - items[i].Prior) / guard(items[i].Prior) * 100
	}

	// Weights need the total-assets anchor; its absence is fatal
	anchorIdx := findFirst(items, labels.TotalAssets)
	if anchorIdx < 0 {
		return nil, fmt.Errorf("%w (looked for %s)", ErrMissingAnchorRow, quoteAll(labels.TotalAssets))
	}

	// Each period's denominator is guarded independently
	anchorPrior := guard(items[anchorIdx].Prior)
	anchorCurrent := guard(items[anchorIdx].Current)
	for i := range items {
		items[i].PriorWeightPct = items[i].Prior / anchorPrior * 100
		items[i].CurrentWeightPct = items[i].Current / anchorCurrent * 100
	}

	st := &model.Statement{
		Items:                     items,
		AnchorIndex:               anchorIdx,
		ShortTermAssetsIndex:      findFirst(items, labels.ShortTermAssets),
		ShortTermLiabilitiesIndex: findFirst(items, labels.ShortTermLiabilities),
	}

	// Liquidity is optional: missing rows degrade it to unavailable
	// without affecting anything derived above
	if st.ShortTermAssetsIndex >= 0 && st.ShortTermLiabilitiesIndex >= 0 {
		assets := items[st.ShortTermAssetsIndex]
		liabilities := items[st.ShortTermLiabilitiesIndex]
		st.Liquidity = model.LiquidityRatio{
			Available: true,
			Prior:     assets.Prior / guard(liabilities.Prior),
			Current:   assets.Current / guard(liabilities.Current),
		}
	}

	return st, nil
}

// guard returns x, or the zero-guard constant when x is zero
func guard(x float64) float64 {
	if x != 0 {
		return x
	}
	return zeroGuard
}

// findFirst returns the index of the first row whose normalized label
// contains one of the substrings. The lists are tried in order, so a
// preferred caption always beats a fallback one.
func findFirst(items []model.LineItem, substrings []string) int {
	for _, sub := range substrings {
		needle := strings.ToUpper(strings.TrimSpace(sub))
		if needle == "" {
			continue
		}
		for i := range items {
			label := strings.ToUpper(strings.TrimSpace(items[i].Label))
			if strings.Contains(label, needle) {
				return i
			}
		}
	}
	return -1
}

// coerceNumber parses a value cell, tolerating thousands separators,
// currency symbols and parenthesized negatives. Anything unparsable
// becomes 0; a malformed cell never fails the derivation.
func coerceNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '+', r == 'e', r == 'E':
			b.WriteRune(r)
		case r == ',', r == ' ', r == '\u00a0', r == '$', r == '€', r == '£':
			// separator or currency symbol, drop it
		default:
			return 0
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	if negative {
		v = -v
	}
	return v
}

func quoteAll(subs []string) string {
	quoted := make([]string, len(subs))
	for i, s := range subs {
		quoted[i] = strconv.Quote(s)
	}
	return strings.Join(quoted, ", ")
}
