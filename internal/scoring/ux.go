package scoring

import (
	"fmt"

	"github.com/Bahjat/site-health/backend/internal/model"
	"github.com/Bahjat/site-health/backend/internal/pageinsight"
)

// UX scores accessibility and mobile-readiness signals.
func UX(p *pageinsight.Page) model.CategoryScore {
	return total([]model.CriterionResult{
		imageAlt(p.Images, p.ImagesWithAlt),
		links(p.Links),
		flat("mobile_viewport", p.HasViewport, 25, "Mobile-friendly viewport"),
		externalScripts(p.ExternalScripts),
	})
}

func imageAlt(images, withAlt int) model.CriterionResult {
	c := model.CriterionResult{
		Name:        "image_alt_tags",
		Value:       fmt.Sprintf("%d/%d images", withAlt, images),
		MaxPoints:   30,
		Description: "Image alt attributes",
	}
	if images == 0 {
		c.Status = "No Images"
		return c
	}

	ratio := float64(withAlt) / float64(images)
	c.PointsEarned = ratio * 30
	switch {
	case ratio >= 0.9:
		c.Status = "Excellent"
	case ratio >= 0.5:
		c.Status = "Good"
	default:
		c.Status = "Poor"
	}
	return c
}

func links(count int) model.CriterionResult {
	c := model.CriterionResult{
		Name:        "internal_links",
		Value:       fmt.Sprintf("%d links", count),
		MaxPoints:   25,
		Description: "Links with an href",
	}
	switch {
	case count >= 5:
		c.Status, c.PointsEarned = "Good", 25
	case count > 0:
		c.Status, c.PointsEarned = "Fair", 15
	default:
		c.Status = "Poor"
	}
	return c
}

func externalScripts(count int) model.CriterionResult {
	c := model.CriterionResult{
		Name:        "external_scripts",
		Value:       fmt.Sprintf("%d scripts", count),
		MaxPoints:   20,
		Description: "External script tags",
	}
	switch {
	case count <= 10:
		c.Status, c.PointsEarned = "Excellent", 20
	case count <= 20:
		c.Status, c.PointsEarned = "Good", 10
	default:
		c.Status = "Too Many"
	}
	return c
}
