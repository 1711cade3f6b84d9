package price

import (
	"testing"
	"time"
)

func TestSyntheticChartShape(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	chart := SyntheticChart(42, 1000, now)

	if len(chart.Labels) != 30 {
		t.Fatalf("labels = %d, want 30", len(chart.Labels))
	}
	if len(chart.Datasets[0].Data) != 30 {
		t.Fatalf("data points = %d, want 30", len(chart.Datasets[0].Data))
	}
	if chart.Labels[0] != "2026-07-02" {
		t.Errorf("first label = %s, want 2026-07-02", chart.Labels[0])
	}
	if chart.Labels[29] != "2026-07-31" {
		t.Errorf("last label = %s, want 2026-07-31", chart.Labels[29])
	}
	for _, price := range chart.Datasets[0].Data {
		if price < 950 || price > 1050 {
			t.Errorf("synthetic price %f outside +/-5%% band", price)
		}
	}
}

func TestSyntheticChartDeterministic(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	a := SyntheticChart(7, 2500, now)
	b := SyntheticChart(7, 2500, now)
	for i := range a.Datasets[0].Data {
		if a.Datasets[0].Data[i] != b.Datasets[0].Data[i] {
			t.Fatalf("series differ at %d for identical seeds", i)
		}
	}
}
