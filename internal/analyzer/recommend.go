package analyzer

import (
	"fmt"
	"unicode/utf8"

	"github.com/Bahjat/site-health/backend/internal/model"
)

const (
	recommendBelow   = 70
	slowMobileBelow  = 50
	lcpTargetSeconds = 2.5
)

// Recommendations derives improvement suggestions from a stored record.
func Recommendations(rec model.AnalysisRecord) []model.Recommendation {
	out := []model.Recommendation{}

	if rec.TechnicalScore < recommendBelow {
		if !rec.Technical.HasSSL {
			out = append(out, model.Recommendation{
				Title:          "Enable HTTPS/SSL",
				Description:    "Your site is not using HTTPS. This is critical for security and SEO.",
				Priority:       "high",
				Difficulty:     "moderate",
				ExpectedImpact: 15,
				Category:       model.CategoryTechnical,
			})
		}
		if !rec.Technical.HasSitemap {
			out = append(out, model.Recommendation{
				Title:          "Create XML Sitemap",
				Description:    "Add an XML sitemap to help search engines discover and index your pages.",
				Priority:       "high",
				Difficulty:     "easy",
				ExpectedImpact: 10,
				Category:       model.CategoryTechnical,
			})
		}
	}

	if rec.ContentScore < recommendBelow {
		if utf8.RuneCountInString(rec.Content.MetaTitle) < 30 {
			out = append(out, model.Recommendation{
				Title:          "Optimize Meta Title",
				Description:    "Your meta title is missing or too short. Aim for 50-60 characters with target keywords.",
				Priority:       "high",
				Difficulty:     "easy",
				ExpectedImpact: 12,
				Category:       model.CategoryContent,
			})
		}
		if rec.Content.H1Count != 1 {
			out = append(out, model.Recommendation{
				Title:          "Fix H1 Tag Structure",
				Description:    fmt.Sprintf("Your page has %d H1 tags. There should be exactly one H1 per page.", rec.Content.H1Count),
				Priority:       "medium",
				Difficulty:     "easy",
				ExpectedImpact: 8,
				Category:       model.CategoryContent,
			})
		}
	}

	if rec.UXScore < recommendBelow && !rec.UX.MobileFriendly {
		out = append(out, model.Recommendation{
			Title:          "Make Site Mobile-Friendly",
			Description:    "Add a responsive viewport meta tag and ensure mobile optimization.",
			Priority:       "high",
			Difficulty:     "moderate",
			ExpectedImpact: 15,
			Category:       model.CategoryUX,
		})
	}

	// A failed mobile audit is unknown, not slow.
	mobile := rec.Performance.Mobile
	lcp := mobile.CoreWebVitals.LCPSeconds
	if !mobile.Failed() && mobile.PerformanceScore > 0 && mobile.PerformanceScore < slowMobileBelow &&
		lcp != nil && *lcp > lcpTargetSeconds {
		out = append(out, model.Recommendation{
			Title:          "Improve Largest Contentful Paint (LCP)",
			Description:    fmt.Sprintf("Your LCP is %.2fs. Target is under 2.5s. Optimize images and server response time.", *lcp),
			Priority:       "high",
			Difficulty:     "moderate",
			ExpectedImpact: 10,
			Category:       model.CategoryUX,
		})
	}

	return out
}
