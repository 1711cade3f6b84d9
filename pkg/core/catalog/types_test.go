package catalog

import (
	"math"
	"testing"
)

func TestComputeReviewStats(t *testing.T) {
	reviews := []Review{
		{Rating: 5, VerifiedPurchase: true},
		{Rating: 4, VerifiedPurchase: true},
		{Rating: 4},
		{Rating: 1},
	}
	stats := ComputeReviewStats(reviews)

	if stats.TotalReviews != 4 {
		t.Errorf("total = %d", stats.TotalReviews)
	}
	if math.Abs(stats.AverageRating-3.5) > 0.001 {
		t.Errorf("avg = %f, want 3.5", stats.AverageRating)
	}
	if stats.Distribution[4] != 2 || stats.Distribution[5] != 1 || stats.Distribution[1] != 1 {
		t.Errorf("distribution = %v", stats.Distribution)
	}
	if stats.VerifiedPurchases != 2 {
		t.Errorf("verified = %d", stats.VerifiedPurchases)
	}
	if math.Abs(stats.DistributionPct[4]-50) > 0.001 {
		t.Errorf("pct[4] = %f", stats.DistributionPct[4])
	}
}

func TestComputeReviewStatsEmpty(t *testing.T) {
	stats := ComputeReviewStats(nil)
	if stats.TotalReviews != 0 || stats.AverageRating != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
}

func TestParseTenure(t *testing.T) {
	cases := map[string]*int{
		"6":         intPtr(6),
		"12 months": intPtr(12),
		"":          nil,
		"abc":       nil,
		"0":         nil,
	}
	for in, want := range cases {
		got := parseTenure(in)
		switch {
		case want == nil && got != nil:
			t.Errorf("parseTenure(%q) = %d, want nil", in, *got)
		case want != nil && (got == nil || *got != *want):
			t.Errorf("parseTenure(%q) = %v, want %d", in, got, *want)
		}
	}
}

func intPtr(v int) *int { return &v }

func TestDecodeSpecifications(t *testing.T) {
	specs := decodeSpecifications(`{"ram": "8GB", "cores": 8, "5g": true}`)
	if specs["ram"] != "8GB" {
		t.Errorf("ram = %q", specs["ram"])
	}
	// Heterogeneous values render as strings.
	if specs["cores"] != "8" {
		t.Errorf("cores = %q", specs["cores"])
	}
	if specs["5g"] != "true" {
		t.Errorf("5g = %q", specs["5g"])
	}
	if decodeSpecifications("not json") != nil {
		t.Error("invalid specs should decode to nil")
	}
}

func TestMRPOrPrice(t *testing.T) {
	m := 900.0
	p := Product{Price: 800, MRP: &m}
	if p.MRPOrPrice() != 900 {
		t.Errorf("MRPOrPrice = %f", p.MRPOrPrice())
	}
	bare := Product{Price: 800}
	if bare.MRPOrPrice() != 800 {
		t.Errorf("MRPOrPrice without MRP = %f", bare.MRPOrPrice())
	}
}
