package calculator

import (
	"sort"

	"StockScope/internal/model"
)

// Rank orders per-symbol analyses by total return, best first, and assigns
// 1-based ranks. The sort is stable: ties keep their original fetch order.
func Rank(analyses []*model.Analysis) ([]model.RankedAnalysis, error) {
	if len(analyses) < 2 {
		return nil, ErrInsufficientSymbols
	}
	ranked := make([]model.RankedAnalysis, len(analyses))
	for i, a := range analyses {
		ranked[i] = model.RankedAnalysis{Analysis: *a}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalReturn > ranked[j].TotalReturn
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// Partition splits snapshot quotes into gainers and decliners on the numeric
// sign of the percent change. A change of exactly zero counts as a gainer.
// Input order is preserved within each bucket.
func Partition(entries []model.QuoteEntry) (gainers, decliners []model.QuoteEntry) {
	for _, e := range entries {
		if e.Quote == nil {
			continue
		}
		if e.Quote.PctChange < 0 {
			decliners = append(decliners, e)
		} else {
			gainers = append(gainers, e)
		}
	}
	return gainers, decliners
}
