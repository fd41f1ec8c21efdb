package calculator

import (
	"errors"
	"testing"

	"StockScope/internal/model"
)

func analysisWithReturn(symbol string, totalReturn float64) *model.Analysis {
	return &model.Analysis{Symbol: symbol, Interval: "m3", TotalReturn: totalReturn}
}

func TestRank_OrdersByTotalReturn(t *testing.T) {
	ranked, err := Rank([]*model.Analysis{
		analysisWithReturn("B", -5.0),
		analysisWithReturn("A", 10.0),
		analysisWithReturn("C", 3.2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantOrder := []string{"A", "C", "B"}
	for i, want := range wantOrder {
		if ranked[i].Symbol != want {
			t.Errorf("position %d: expected %s, got %s", i, want, ranked[i].Symbol)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, ranked[i].Rank)
		}
	}
}

func TestRank_TiesKeepFetchOrder(t *testing.T) {
	ranked, err := Rank([]*model.Analysis{
		analysisWithReturn("first", 4.0),
		analysisWithReturn("second", 4.0),
		analysisWithReturn("third", 4.0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if ranked[i].Symbol != want {
			t.Errorf("tie ordering broken at %d: expected %s, got %s", i, want, ranked[i].Symbol)
		}
	}
}

func TestRank_InsufficientSymbols(t *testing.T) {
	for _, analyses := range [][]*model.Analysis{nil, {analysisWithReturn("A", 1.0)}} {
		if _, err := Rank(analyses); !errors.Is(err, ErrInsufficientSymbols) {
			t.Errorf("expected ErrInsufficientSymbols for %d analyses, got %v", len(analyses), err)
		}
	}
}

func TestPartition_NumericSign(t *testing.T) {
	entries := []model.QuoteEntry{
		{Symbol: "up", Quote: &model.Quote{PctChange: 1.5}},
		{Symbol: "down", Quote: &model.Quote{PctChange: -0.3}},
		{Symbol: "flat", Quote: &model.Quote{PctChange: 0}},
		{Symbol: "up2", Quote: &model.Quote{PctChange: 0.01}},
		{Symbol: "down2", Quote: &model.Quote{PctChange: -7.2}},
	}
	gainers, decliners := Partition(entries)

	wantGainers := []string{"up", "flat", "up2"}
	wantDecliners := []string{"down", "down2"}
	if len(gainers) != len(wantGainers) {
		t.Fatalf("expected %d gainers, got %d", len(wantGainers), len(gainers))
	}
	for i, want := range wantGainers {
		if gainers[i].Symbol != want {
			t.Errorf("gainer %d: expected %s, got %s", i, want, gainers[i].Symbol)
		}
	}
	if len(decliners) != len(wantDecliners) {
		t.Fatalf("expected %d decliners, got %d", len(wantDecliners), len(decliners))
	}
	for i, want := range wantDecliners {
		if decliners[i].Symbol != want {
			t.Errorf("decliner %d: expected %s, got %s", i, want, decliners[i].Symbol)
		}
	}
}

func TestPartition_SkipsMissingQuotes(t *testing.T) {
	gainers, decliners := Partition([]model.QuoteEntry{
		{Symbol: "missing", Quote: nil},
		{Symbol: "ok", Quote: &model.Quote{PctChange: -1}},
	})
	if len(gainers) != 0 || len(decliners) != 1 {
		t.Errorf("expected 0 gainers and 1 decliner, got %d/%d", len(gainers), len(decliners))
	}
}
