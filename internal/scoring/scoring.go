// Package scoring turns page signals into the four 0-100 category scores and
// their weighted total. Every function here is pure and deterministic.
package scoring

import (
	"net/url"

	"github.com/Bahjat/site-health/backend/internal/model"
	"github.com/Bahjat/site-health/backend/internal/pageinsight"
)

const maxCategoryScore = 100

// Input is everything the rubric reads for one run.
type Input struct {
	// URL is the requested page address; its scheme decides the SSL criterion.
	URL       string
	Fetch     model.FetchResult
	Resources pageinsight.Resources
	Page      *pageinsight.Page
}

// Result bundles the category scores, their aggregate and the raw signals
// stored alongside them.
type Result struct {
	Technical model.CategoryScore
	Content   model.CategoryScore
	UX        model.CategoryScore
	Authority model.CategoryScore
	Aggregate model.AggregateScore

	TechnicalDetails model.TechnicalDetails
	ContentDetails   model.ContentDetails
	UXDetails        model.UXDetails
}

// Evaluate scores in with DefaultWeights.
func Evaluate(in Input) Result {
	r := Result{
		Technical: Technical(in),
		Content:   Content(in.Page),
		UX:        UX(in.Page),
		Authority: Authority(in.Page),
	}
	r.Aggregate = Aggregate(Categories{
		Technical: r.Technical,
		Content:   r.Content,
		UX:        r.UX,
		Authority: r.Authority,
	}, DefaultWeights)

	r.TechnicalDetails = model.TechnicalDetails{
		HasSSL:       hasSSL(in.URL),
		ResponseTime: in.Fetch.ElapsedSeconds,
		HasViewport:  in.Page.HasViewport,
		HasCanonical: in.Page.HasCanonical,
		HasRobotsTxt: in.Resources.HasRobotsTxt,
		HasSitemap:   in.Resources.HasSitemap,
		StatusCode:   in.Fetch.StatusCode,
	}
	r.ContentDetails = model.ContentDetails{
		MetaTitle:       in.Page.Title,
		MetaDescription: in.Page.Description,
		H1Count:         in.Page.H1Count,
		H1Text:          in.Page.FirstH1,
		WordCount:       in.Page.WordCount,
	}
	r.UXDetails = model.UXDetails{
		TotalImages:     in.Page.Images,
		ImagesWithAlt:   in.Page.ImagesWithAlt,
		LinkCount:       in.Page.Links,
		ExternalScripts: in.Page.ExternalScripts,
		MobileFriendly:  in.Page.HasViewport,
	}
	return r
}

func hasSSL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme == "https"
}

// total sums earned points and caps the result at 100.
func total(criteria []model.CriterionResult) model.CategoryScore {
	var sum float64
	for _, c := range criteria {
		sum += c.PointsEarned
	}
	return model.CategoryScore{
		Value:     min(sum, maxCategoryScore),
		Breakdown: criteria,
	}
}

func passFail(ok bool) string {
	if ok {
		return "Pass"
	}
	return "Fail"
}

// flat awards max points when ok holds.
func flat(name string, ok bool, maxPoints float64, description string) model.CriterionResult {
	var earned float64
	if ok {
		earned = maxPoints
	}
	return model.CriterionResult{
		Name:         name,
		Status:       passFail(ok),
		PointsEarned: earned,
		MaxPoints:    maxPoints,
		Description:  description,
	}
}
