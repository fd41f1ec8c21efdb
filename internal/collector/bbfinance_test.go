package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBBFinanceFetcher_FetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-rapidapi-key"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		if got := r.URL.Query().Get("id"); got != "aapl:us" {
			t.Errorf("expected lowercased symbol id, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"aapl:us":{
			"name":"Apple Inc","last":185.5,"currency":"USD",
			"netChange":1.2,"pctChange":0.65,
			"dayHigh":186.0,"dayLow":183.1,
			"yearHigh":199.6,"yearLow":164.1,
			"volume":52000000,"exchange":"NASDAQ"}}}`))
	}))
	defer srv.Close()

	f := NewBBFinanceFetcher(srv.URL, srv.URL, "test-host", "test-key", "")
	q, err := f.FetchQuote(context.Background(), "AAPL:US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Name != "Apple Inc" || q.Last != 185.5 || q.PctChange != 0.65 {
		t.Errorf("quote not decoded: %+v", q)
	}
}

func TestBBFinanceFetcher_FetchChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("interval"); got != "m3" {
			t.Errorf("expected interval m3, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"tsla:us":{"ticks":[
			{"time":1700000000,"close":240.5},
			{"time":1700086400,"close":245.1}]}}}`))
	}))
	defer srv.Close()

	f := NewBBFinanceFetcher(srv.URL, srv.URL, "test-host", "test-key", "")
	ticks, err := f.FetchChart(context.Background(), "tsla:us", "m3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ticks) != 2 {
		t.Fatalf("expected 2 ticks, got %d", len(ticks))
	}
	if ticks[0].Close != 240.5 || ticks[1].Close != 245.1 {
		t.Errorf("ticks not decoded: %+v", ticks)
	}
}

func TestBBFinanceFetcher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewBBFinanceFetcher(srv.URL, srv.URL, "test-host", "test-key", "")
	if _, err := f.FetchQuote(context.Background(), "aapl:us"); err == nil {
		t.Error("expected error for non-200 status")
	}
	if _, err := f.FetchChart(context.Background(), "aapl:us", "m3"); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestBBFinanceFetcher_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{}}`))
	}))
	defer srv.Close()

	f := NewBBFinanceFetcher(srv.URL, srv.URL, "test-host", "test-key", "")
	if _, err := f.FetchQuote(context.Background(), "none:us"); err == nil {
		t.Error("expected error for empty result map")
	}
}
