package scoring

import (
	"testing"

	"github.com/Bahjat/site-health/backend/internal/model"
)

func categories(tech, content, ux, authority float64) Categories {
	return Categories{
		Technical: model.CategoryScore{Value: tech},
		Content:   model.CategoryScore{Value: content},
		UX:        model.CategoryScore{Value: ux},
		Authority: model.CategoryScore{Value: authority},
	}
}

func TestAggregate_Capping(t *testing.T) {
	tests := []struct {
		name       string
		c          Categories
		w          model.Weights
		wantRaw    float64
		wantCapped float64
		wantIsCap  bool
	}{
		{name: "all perfect, default weights", c: categories(100, 100, 100, 100), w: DefaultWeights, wantRaw: 100, wantCapped: 100},
		{name: "all zero", c: categories(0, 0, 0, 0), w: DefaultWeights},
		{name: "overweighted", c: categories(100, 100, 100, 100), w: model.Weights{Technical: 1, Content: 1, UX: 1, Authority: 1}, wantRaw: 400, wantCapped: 100, wantIsCap: true},
		{name: "overweighted below cap", c: categories(20, 20, 20, 20), w: model.Weights{Technical: 1, Content: 1, UX: 1, Authority: 1}, wantRaw: 80, wantCapped: 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.c, tt.w)
			if !approxEqual(got.RawTotal, tt.wantRaw) {
				t.Errorf("RawTotal = %v, want %v", got.RawTotal, tt.wantRaw)
			}
			if !approxEqual(got.CappedTotal, tt.wantCapped) {
				t.Errorf("CappedTotal = %v, want %v", got.CappedTotal, tt.wantCapped)
			}
			if got.IsCapped != tt.wantIsCap {
				t.Errorf("IsCapped = %v, want %v", got.IsCapped, tt.wantIsCap)
			}
			if got.CappedTotal != min(got.RawTotal, 100) {
				t.Errorf("CappedTotal %v != min(RawTotal %v, 100)", got.CappedTotal, got.RawTotal)
			}
		})
	}
}

func TestAggregate_ContributionsSumToRaw(t *testing.T) {
	c := categories(83, 61, 47.5, 75)
	c.Technical.Breakdown = []model.CriterionResult{{Name: "ssl", PointsEarned: 20, MaxPoints: 20}}

	got := Aggregate(c, DefaultWeights)

	var sum float64
	for _, part := range got.Categories {
		sum += part.Contribution
		if !approxEqual(part.Contribution, part.Score*part.Weight) {
			t.Errorf("contribution %v != %v * %v", part.Contribution, part.Score, part.Weight)
		}
	}
	if !approxEqual(sum, got.RawTotal) {
		t.Errorf("sum of contributions = %v, RawTotal = %v", sum, got.RawTotal)
	}
	if len(got.Categories) != 4 {
		t.Fatalf("categories = %d, want 4", len(got.Categories))
	}
	if details := got.Categories[model.CategoryTechnical].Details; len(details) != 1 || details[0].Name != "ssl" {
		t.Errorf("technical details not carried through: %+v", details)
	}
	if got.Weights != DefaultWeights {
		t.Errorf("Weights = %+v", got.Weights)
	}
}
