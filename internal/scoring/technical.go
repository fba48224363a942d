package scoring

import (
	"fmt"

	"github.com/Bahjat/site-health/backend/internal/model"
)

// Technical scores transport and crawlability signals.
func Technical(in Input) model.CategoryScore {
	return total([]model.CriterionResult{
		flat("ssl", hasSSL(in.URL), 20, "HTTPS/SSL certificate"),
		responseTime(in.Fetch.ElapsedSeconds),
		flat("robots_txt", in.Resources.HasRobotsTxt, 15, "robots.txt file"),
		flat("sitemap", in.Resources.HasSitemap, 15, "XML sitemap"),
		flat("viewport", in.Page.HasViewport, 15, "Mobile viewport meta tag"),
		flat("canonical", in.Page.HasCanonical, 15, "Canonical URL tag"),
	})
}

func responseTime(seconds float64) model.CriterionResult {
	c := model.CriterionResult{
		Name:        "response_time",
		Value:       fmt.Sprintf("%.2fs", seconds),
		MaxPoints:   20,
		Description: "Page response time",
	}
	switch {
	case seconds < 2:
		c.Status, c.PointsEarned = "Excellent", 20
	case seconds < 4:
		c.Status, c.PointsEarned = "Good", 10
	default:
		c.Status = "Slow"
	}
	return c
}
