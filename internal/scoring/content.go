package scoring

import (
	"fmt"

	"github.com/Bahjat/site-health/backend/internal/model"
	"github.com/Bahjat/site-health/backend/internal/pageinsight"
)

// Content scores on-page copy and heading structure.
func Content(p *pageinsight.Page) model.CategoryScore {
	return total([]model.CriterionResult{
		lengthBand("title_tag", p.HasTitle, p.TitleLength(), 30, 60, "Title tag (30-60 characters recommended)"),
		lengthBand("meta_description", p.HasDescription, p.DescriptionLength(), 120, 160, "Meta description (120-160 characters recommended)"),
		h1Tag(p.H1Count),
		headingStructure(p.H2Count, p.H3Count),
		wordCount(p.WordCount),
	})
}

// lengthBand awards 25 inside [lo, hi], 15 when present but outside, 0 when absent.
func lengthBand(name string, present bool, length, lo, hi int, description string) model.CriterionResult {
	c := model.CriterionResult{Name: name, MaxPoints: 25, Description: description}
	switch {
	case !present:
		c.Status = "Missing"
	case length >= lo && length <= hi:
		c.Status, c.PointsEarned = "Optimal", 25
	default:
		c.Status, c.PointsEarned = "Present", 15
	}
	if present {
		c.Value = fmt.Sprintf("%d chars", length)
	}
	return c
}

func h1Tag(count int) model.CriterionResult {
	c := model.CriterionResult{
		Name:        "h1_tag",
		Value:       fmt.Sprintf("%d", count),
		MaxPoints:   20,
		Description: "H1 tag (exactly one recommended)",
	}
	switch {
	case count == 1:
		c.Status, c.PointsEarned = "Optimal", 20
	case count > 1:
		c.Status, c.PointsEarned = "Multiple", 10
	default:
		c.Status = "Missing"
	}
	return c
}

func headingStructure(h2, h3 int) model.CriterionResult {
	c := model.CriterionResult{
		Name:        "heading_structure",
		Value:       fmt.Sprintf("H2: %d, H3: %d", h2, h3),
		MaxPoints:   15,
		Description: "Heading structure",
	}
	switch {
	case h2 > 0 && h3 > 0:
		c.Status, c.PointsEarned = "Good", 15
	case h2 > 0:
		c.Status, c.PointsEarned = "Fair", 10
	default:
		c.Status = "Poor"
	}
	return c
}

func wordCount(words int) model.CriterionResult {
	c := model.CriterionResult{
		Name:        "word_count",
		Value:       fmt.Sprintf("%d words", words),
		MaxPoints:   15,
		Description: "Content volume (1000+ words recommended)",
	}
	switch {
	case words >= 1000:
		c.Status, c.PointsEarned = "Excellent", 15
	case words >= 300:
		c.Status, c.PointsEarned = "Good", 10
	case words >= 100:
		c.Status, c.PointsEarned = "Fair", 5
	default:
		c.Status = "Poor"
	}
	return c
}
