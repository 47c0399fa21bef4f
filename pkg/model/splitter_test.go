package model

import (
	"testing"

	"github.com/matzehuels/flexdock/pkg/geom"
)

func TestSplitterBounds(t *testing.T) {
	m := mustLoad(t, twoTabSets)
	m.Layout(geom.NewRect(0, 0, 1000, 400))

	s, err := m.SplitterAt("root", 0)
	if err != nil {
		t.Fatalf("SplitterAt() error = %v", err)
	}
	lo, hi := SplitterBounds(s)
	if lo != 0 || hi != 992 {
		t.Errorf("SplitterBounds() = (%d, %d), want (0, 992)", lo, hi)
	}

	if _, err := m.SplitterAt("root", 1); err == nil {
		t.Error("SplitterAt(root, 1) should fail with two children")
	}
	if _, err := m.SplitterAt("ts0", 0); err == nil {
		t.Error("SplitterAt on a tab set should fail")
	}
}

func TestCalculateSplit(t *testing.T) {
	tests := []struct {
		name           string
		pos            int
		weight1, pix1  float64
		weight2, pix2  float64
	}{
		{"quarter", 248, 25, 248, 75, 744},
		{"middle", 496, 50, 496, 50, 496},
		{"before lower bound", -40, 0, 0, 100, 1032},
		{"past upper bound", 2000, 100, 2000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustLoad(t, twoTabSets)
			m.Layout(geom.NewRect(0, 0, 1000, 400))
			s, _ := m.SplitterAt("root", 0)

			got, ok := CalculateSplit(s, tt.pos)
			if !ok {
				t.Fatal("CalculateSplit() ok = false")
			}
			if got.Node1 != "ts0" || got.Node2 != "ts1" {
				t.Errorf("nodes = %s, %s, want ts0, ts1", got.Node1, got.Node2)
			}
			if !approx(got.Weight1, tt.weight1) || !approx(got.Weight2, tt.weight2) {
				t.Errorf("weights = %v, %v, want %v, %v", got.Weight1, got.Weight2, tt.weight1, tt.weight2)
			}
			if float64(got.PixelWidth1) != tt.pix1 || float64(got.PixelWidth2) != tt.pix2 {
				t.Errorf("pixels = %d, %d, want %v, %v", got.PixelWidth1, got.PixelWidth2, tt.pix1, tt.pix2)
			}
			if !approx(got.Weight1+got.Weight2, 100) {
				t.Errorf("weight sum = %v, want 100", got.Weight1+got.Weight2)
			}
		})
	}
}

func TestCalculateSplitConservesWeight(t *testing.T) {
	m := mustLoad(t, `{"layout": {"type": "row", "id": "root", "children": [
		{"type": "tabset", "id": "x", "weight": 17},
		{"type": "tabset", "id": "y", "weight": 3.5},
		{"type": "tabset", "id": "z", "weight": 41}]}}`)
	m.Layout(geom.NewRect(0, 0, 1280, 720))
	s, _ := m.SplitterAt("root", 1)

	lo, hi := SplitterBounds(s)
	for pos := lo - 5; pos <= hi+5; pos += 7 {
		got, ok := CalculateSplit(s, pos)
		if !ok {
			t.Fatalf("CalculateSplit(%d) ok = false", pos)
		}
		if sum := got.Weight1 + got.Weight2; !approx(sum, 44.5) {
			t.Fatalf("CalculateSplit(%d) weight sum = %v, want 44.5", pos, sum)
		}
	}
}

func TestCalculateSplitDegenerate(t *testing.T) {
	m := mustLoad(t, twoTabSets)
	m.Layout(geom.NewRect(0, 0, 8, 400))
	s, _ := m.SplitterAt("root", 0)

	if _, ok := CalculateSplit(s, 0); ok {
		t.Error("CalculateSplit() ok = true, want false when both sides are empty")
	}
}

func TestAdjustSplitAppliesWeights(t *testing.T) {
	m := mustLoad(t, twoTabSets)
	m.Layout(geom.NewRect(0, 0, 1000, 400))
	s, _ := m.SplitterAt("root", 0)

	r, _ := CalculateSplit(s, 248)
	if err := m.DoAction(AdjustSplit(r)); err != nil {
		t.Fatalf("AdjustSplit error = %v", err)
	}
	m.Layout(geom.NewRect(0, 0, 1000, 400))

	if got := mustNode(t, m, "ts0").Rect().Width; got != 248 {
		t.Errorf("ts0 width = %d, want 248", got)
	}
	if got := mustNode(t, m, "ts1").Rect(); got != geom.NewRect(256, 0, 744, 400) {
		t.Errorf("ts1 Rect() = %v, want Rect(256, 0, 744x400)", got)
	}
}
