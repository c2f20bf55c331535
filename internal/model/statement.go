package model

// RawRow is one line of an uploaded statement before any normalization.
// Value cells stay as the text found in the file; coercion to numbers is
// the derivation engine's job.
type RawRow struct {
	Label   string `json:"label"`
	Prior   string `json:"prior"`
	Current string `json:"current"`
}

// LineItem is a statement row after enrichment by the derivation engine.
// Prior/Current hold the coerced numeric values (unparsable cells become 0).
type LineItem struct {
	Label            string  `json:"label"`
	Prior            float64 `json:"prior"`
	Current          float64 `json:"current"`
	GrowthPct        float64 `json:"growth_pct"`
	PriorWeightPct   float64 `json:"prior_weight_pct"`
	CurrentWeightPct float64 `json:"current_weight_pct"`
}

// LiquidityRatio is the current ratio (short-term assets over short-term
// liabilities) for both periods. Available is false when either of the
// two source rows is missing from the statement.
type LiquidityRatio struct {
	Available bool    `json:"available"`
	Prior     float64 `json:"prior,omitempty"`
	Current   float64 `json:"current,omitempty"`
}

// Statement is the enriched two-period statement. Items preserve the row
// order of the uploaded file. The index fields point at the rows the
// engine resolved for anchor and liquidity lookups (-1 when absent).
type Statement struct {
	Items []LineItem `json:"items"`

	AnchorIndex               int `json:"anchor_index"`
	ShortTermAssetsIndex      int `json:"short_term_assets_index"`
	ShortTermLiabilitiesIndex int `json:"short_term_liabilities_index"`

	Liquidity LiquidityRatio `json:"liquidity"`
}

// Anchor returns the total-assets row the weights were computed against.
func (s *Statement) Anchor() LineItem {
	return s.Items[s.AnchorIndex]
}

// KeyMetrics is the compact excerpt the formatter extracts for display
// and for the language-model context block.
type KeyMetrics struct {
	TotalAssetsGrowthPct float64 `json:"total_assets_growth_pct"`

	// Short-term assets growth is only present when the statement has a
	// short-term assets row.
	ShortTermAssetsGrowthPct float64 `json:"short_term_assets_growth_pct,omitempty"`
	HasShortTermAssets       bool    `json:"has_short_term_assets"`

	Liquidity LiquidityRatio `json:"liquidity"`
}
