package scoring

import "github.com/Bahjat/site-health/backend/internal/model"

// DefaultWeights sum to 1, so the raw total of in-range scores never exceeds 100.
var DefaultWeights = model.Weights{
	Technical: 0.30,
	Content:   0.25,
	UX:        0.25,
	Authority: 0.20,
}

// Categories are the four scores a total is built from.
type Categories struct {
	Technical model.CategoryScore
	Content   model.CategoryScore
	UX        model.CategoryScore
	Authority model.CategoryScore
}

// Aggregate weights the category scores into a total. The raw total is kept
// next to the capped one so callers can see when the cap applied.
func Aggregate(c Categories, w model.Weights) model.AggregateScore {
	parts := map[string]model.CategoryContribution{
		model.CategoryTechnical: contribution(c.Technical, w.Technical),
		model.CategoryContent:   contribution(c.Content, w.Content),
		model.CategoryUX:        contribution(c.UX, w.UX),
		model.CategoryAuthority: contribution(c.Authority, w.Authority),
	}

	raw := parts[model.CategoryTechnical].Contribution +
		parts[model.CategoryContent].Contribution +
		parts[model.CategoryUX].Contribution +
		parts[model.CategoryAuthority].Contribution

	return model.AggregateScore{
		RawTotal:    raw,
		CappedTotal: min(raw, maxCategoryScore),
		IsCapped:    raw > maxCategoryScore,
		Weights:     w,
		Categories:  parts,
	}
}

func contribution(s model.CategoryScore, weight float64) model.CategoryContribution {
	return model.CategoryContribution{
		Score:        s.Value,
		Weight:       weight,
		Contribution: s.Value * weight,
		Details:      s.Breakdown,
	}
}
