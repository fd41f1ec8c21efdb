package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"StockScope/internal/model"
	"StockScope/internal/vector"
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

func trendIcon(trend model.Trend) string {
	switch trend {
	case model.TrendUp:
		return "📈"
	case model.TrendDown:
		return "📉"
	default:
		return "➡️"
	}
}

func returnIcon(value float64) string {
	if value >= 0 {
		return "🟢"
	}
	return "🔴"
}

// FormatQuote renders a snapshot quote as a readable report.
func FormatQuote(q *model.Quote, symbol string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔸 **%s (%s)**\n", q.Name, strings.ToUpper(symbol)))
	b.WriteString(divider + "\n\n")
	b.WriteString(fmt.Sprintf("📊 **Current Price:** %s %.2f\n", q.Currency, q.Last))
	b.WriteString(fmt.Sprintf("📈 **Change:** %.2f (%.2f%%)\n", q.NetChange, q.PctChange))
	b.WriteString(fmt.Sprintf("🔄 **Exchange:** %s\n\n", q.Exchange))
	b.WriteString("📅 **Day Trading Range:**\n")
	b.WriteString(fmt.Sprintf("   • High: %s %.2f\n", q.Currency, q.DayHigh))
	b.WriteString(fmt.Sprintf("   • Low:  %s %.2f\n\n", q.Currency, q.DayLow))
	b.WriteString("📆 **52-Week Range:**\n")
	b.WriteString(fmt.Sprintf("   • High: %s %.2f\n", q.Currency, q.YearHigh))
	b.WriteString(fmt.Sprintf("   • Low:  %s %.2f\n\n", q.Currency, q.YearLow))
	b.WriteString(fmt.Sprintf("📊 **Volume:** %s\n\n", humanize.Comma(int64(q.Volume))))
	b.WriteString(divider)

	return b.String()
}

// FormatAnalysis renders a chart analysis report. All values are rounded to
// two decimals here, at the presentation boundary.
func FormatAnalysis(a *model.Analysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s **%s - %s Chart Analysis**\n",
		trendIcon(a.Trend), strings.ToUpper(a.Symbol), model.IntervalName(a.Interval)))
	b.WriteString(divider + "\n\n")
	b.WriteString("📊 **Performance Summary:**\n")
	b.WriteString(fmt.Sprintf("%s Total Return: %.2f%%\n", returnIcon(a.TotalReturn), a.TotalReturn))
	b.WriteString(fmt.Sprintf("📉 Volatility: %.2f%%\n", a.Volatility))
	b.WriteString(fmt.Sprintf("📈 Trend: %s\n\n", titleCase(string(a.Trend))))
	b.WriteString("💰 **Price Levels:**\n")
	b.WriteString(fmt.Sprintf("🔵 Current: $%.2f\n", a.LastPrice))
	b.WriteString(fmt.Sprintf("🟢 High: $%.2f\n", a.MaxPrice))
	b.WriteString(fmt.Sprintf("🔴 Low: $%.2f\n", a.MinPrice))
	b.WriteString(fmt.Sprintf("📏 Range: $%.2f\n\n", a.PriceRange))
	b.WriteString("🎯 **Key Levels:**\n")
	b.WriteString(fmt.Sprintf("🛡️ Support: $%.2f\n", a.SupportLevel))
	b.WriteString(fmt.Sprintf("⚡ Resistance: $%.2f\n\n", a.ResistanceLevel))
	b.WriteString(fmt.Sprintf("📈 **Data Points:** %d price observations\n\n", a.DataPoints))
	b.WriteString(divider)

	return b.String()
}

// FormatComparison renders a ranked multi-symbol performance comparison.
func FormatComparison(ranked []model.RankedAnalysis) string {
	var b strings.Builder

	b.WriteString("📊 **PERFORMANCE COMPARISON**\n")
	b.WriteString(strings.Repeat("━", 60) + "\n\n")

	for _, r := range ranked {
		b.WriteString(fmt.Sprintf("%d. %s **%s**\n", r.Rank, returnIcon(r.TotalReturn), strings.ToUpper(r.Symbol)))
		b.WriteString(fmt.Sprintf("   Return: %.2f%% | Volatility: %.2f%% %s\n",
			r.TotalReturn, r.Volatility, trendIcon(r.Trend)))
		b.WriteString(fmt.Sprintf("   Range: $%.2f - $%.2f\n\n", r.MinPrice, r.MaxPrice))
	}

	return b.String()
}

// FormatVolatility renders a volatility analysis report.
func FormatVolatility(d *model.VolatilityDetail) string {
	riskIcon := map[model.RiskLevel]string{
		model.RiskLow:      "🟢 Low Risk",
		model.RiskModerate: "🟡 Moderate Risk",
		model.RiskHigh:     "🔴 High Risk",
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚡ **%s - Volatility Analysis (%s)**\n",
		strings.ToUpper(d.Symbol), model.IntervalName(d.Interval)))
	b.WriteString(divider + "\n\n")
	b.WriteString("📊 **Volatility Metrics:**\n")
	b.WriteString(fmt.Sprintf("🎯 Overall Volatility: %.2f%% (%s)\n", d.Volatility, d.Risk))
	b.WriteString(fmt.Sprintf("📈 Largest Single Move: %.2f%%\n", d.MaxStepChange))
	b.WriteString(fmt.Sprintf("📊 Average Daily Move: %.2f%%\n\n", d.AvgStepChange))
	b.WriteString("💰 **Price Range Analysis:**\n")
	b.WriteString(fmt.Sprintf("🔴 Lowest: $%.2f\n", d.MinPrice))
	b.WriteString(fmt.Sprintf("🟢 Highest: $%.2f\n", d.MaxPrice))
	b.WriteString(fmt.Sprintf("📏 Total Range: %.1f%%\n\n", d.TotalRangePct))
	b.WriteString("🎯 **Risk Assessment:**\n")
	b.WriteString(fmt.Sprintf("%s - %s volatility stock\n\n", riskIcon[d.Risk], d.Risk))
	b.WriteString(divider)

	return b.String()
}

// FormatSnapshotComparison renders a side-by-side quote comparison in the
// order the symbols were requested.
func FormatSnapshotComparison(entries []model.QuoteEntry) string {
	var b strings.Builder

	b.WriteString("📊 **STOCK COMPARISON**\n")
	b.WriteString(strings.Repeat("━", 60) + "\n\n")

	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s **%s (%s)**\n",
			returnIcon(e.Quote.PctChange), e.Quote.Name, strings.ToUpper(e.Symbol)))
		b.WriteString(fmt.Sprintf("   Price: %s %.2f (%.2f%%)\n\n",
			e.Quote.Currency, e.Quote.Last, e.Quote.PctChange))
	}

	return b.String()
}

// FormatMarketSummary renders the gainers/decliners partition.
func FormatMarketSummary(gainers, decliners []model.QuoteEntry) string {
	var b strings.Builder

	b.WriteString("📈 **MARKET SUMMARY**\n")
	b.WriteString(strings.Repeat("━", 50) + "\n\n")

	if len(gainers) > 0 {
		b.WriteString("🟢 **TOP GAINERS:**\n")
		for _, e := range gainers {
			b.WriteString(fmt.Sprintf("   • %s (%s): %s %.2f | +%.2f (%.2f%%)\n",
				e.Quote.Name, strings.ToUpper(e.Symbol), e.Quote.Currency, e.Quote.Last,
				e.Quote.NetChange, e.Quote.PctChange))
		}
		b.WriteString("\n")
	}
	if len(decliners) > 0 {
		b.WriteString("🔴 **DECLINERS:**\n")
		for _, e := range decliners {
			b.WriteString(fmt.Sprintf("   • %s (%s): %s %.2f | %.2f (%.2f%%)\n",
				e.Quote.Name, strings.ToUpper(e.Symbol), e.Quote.Currency, e.Quote.Last,
				e.Quote.NetChange, e.Quote.PctChange))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatIndexList renders the vector index inventory.
func FormatIndexList(infos []vector.IndexInfo) string {
	if len(infos) == 0 {
		return "No indexes found"
	}

	var b strings.Builder
	b.WriteString("📊 **VECTOR INDEXES**\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	for _, info := range infos {
		b.WriteString(fmt.Sprintf("📁 **%s**\n", info.Name))
		b.WriteString(fmt.Sprintf("   Dimension: %d\n", info.Dimension))
		b.WriteString(fmt.Sprintf("   Metric: %s\n", info.Metric))
		b.WriteString(fmt.Sprintf("   Created: %s\n\n", info.CreatedAt.Format("2006-01-02 15:04:05")))
	}
	return b.String()
}

// FormatSearchResults renders similarity-search matches.
func FormatSearchResults(query string, matches []vector.Match, includeMetadata bool) string {
	var b strings.Builder
	b.WriteString("🔍 **SEMANTIC SEARCH RESULTS**\n")
	b.WriteString(fmt.Sprintf("Query: '%s'\n", query))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	if len(matches) == 0 {
		b.WriteString("No matches found.")
		return b.String()
	}

	for i, m := range matches {
		b.WriteString(fmt.Sprintf("**Result %d** (Score: %.4f)\n", i+1, m.Score))
		b.WriteString(fmt.Sprintf("ID: %s\n", m.ID))
		if includeMetadata && m.Metadata != nil {
			writeMetadata(&b, m.Metadata)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatFetchedVectors renders vectors retrieved by id.
func FormatFetchedVectors(index string, records []vector.Record, includeMetadata bool) string {
	var b strings.Builder
	b.WriteString("📋 **RETRIEVED VECTORS**\n")
	b.WriteString(fmt.Sprintf("Index: %s\n", index))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	if len(records) == 0 {
		b.WriteString("No vectors found for the provided IDs.")
		return b.String()
	}

	for _, rec := range records {
		b.WriteString(fmt.Sprintf("**ID: %s**\n", rec.ID))
		if includeMetadata && rec.Metadata != nil {
			writeMetadata(&b, rec.Metadata)
		}
		b.WriteString(fmt.Sprintf("Vector dimension: %d\n\n", len(rec.Values)))
	}
	return b.String()
}

// FormatIndexStats renders index statistics.
func FormatIndexStats(stats *vector.IndexStats) string {
	var b strings.Builder
	b.WriteString("📊 **INDEX STATISTICS**\n")
	b.WriteString(fmt.Sprintf("Index: %s\n", stats.Name))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	b.WriteString(fmt.Sprintf("Total vector count: %d\n", stats.VectorCount))
	b.WriteString(fmt.Sprintf("Dimension: %d\n", stats.Dimension))
	b.WriteString(fmt.Sprintf("Metric: %s\n", stats.Metric))
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeMetadata prints the stored text first, then the remaining keys as JSON.
func writeMetadata(b *strings.Builder, metadata map[string]any) {
	if text, ok := metadata["text"].(string); ok {
		b.WriteString(fmt.Sprintf("Text: %s\n", text))
	}
	rest := make(map[string]any, len(metadata))
	for k, v := range metadata {
		if k != "text" {
			rest[k] = v
		}
	}
	if len(rest) > 0 {
		if encoded, err := json.MarshalIndent(rest, "", "  "); err == nil {
			b.WriteString(fmt.Sprintf("Metadata: %s\n", string(encoded)))
		}
	}
}
