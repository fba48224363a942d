package scoring

import (
	"fmt"

	"github.com/Bahjat/site-health/backend/internal/model"
	"github.com/Bahjat/site-health/backend/internal/pageinsight"
)

const authorityBase = 50

// Authority scores structured data and social metadata on top of a fixed base.
func Authority(p *pageinsight.Page) model.CategoryScore {
	schema := flat("schema_markup", p.JSONLDBlocks > 0, 25, "Structured data (Schema.org)")
	schema.Value = fmt.Sprintf("%d blocks", p.JSONLDBlocks)

	return total([]model.CriterionResult{
		{
			Name:         "base_score",
			Status:       "Default",
			Value:        "base score",
			PointsEarned: authorityBase,
			MaxPoints:    authorityBase,
			Description:  "Baseline authority score",
		},
		schema,
		threshold("open_graph", p.OpenGraphTags, 3, 15, "Open Graph tags"),
		threshold("twitter_card", p.TwitterTags, 2, 10, "Twitter Card tags"),
	})
}

// threshold awards maxPoints once count reaches atLeast.
func threshold(name string, count, atLeast int, maxPoints float64, description string) model.CriterionResult {
	c := model.CriterionResult{
		Name:        name,
		Status:      "Insufficient",
		Value:       fmt.Sprintf("%d tags", count),
		MaxPoints:   maxPoints,
		Description: description,
	}
	if count >= atLeast {
		c.Status, c.PointsEarned = "Good", maxPoints
	}
	return c
}
