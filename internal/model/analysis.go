package model

import "time"

// Category names used as keys in breakdowns and narrative payloads.
const (
	CategoryTechnical = "technical"
	CategoryContent   = "content"
	CategoryUX        = "user_experience"
	CategoryAuthority = "authority"
)

// FetchResult is the primary page as retrieved for a single run.
type FetchResult struct {
	FinalURL       string  `json:"final_url"`
	StatusCode     int     `json:"status_code"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Markup         string  `json:"-"`
}

// CriterionResult is one line of a category's rubric.
type CriterionResult struct {
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	Value        string  `json:"value,omitempty"`
	PointsEarned float64 `json:"points_earned"`
	MaxPoints    float64 `json:"max_points"`
	Description  string  `json:"description"`
}

// CategoryScore is a 0-100 sub-score together with the criteria that built it.
type CategoryScore struct {
	Value     float64           `json:"score"`
	Breakdown []CriterionResult `json:"details"`
}

// Weights maps each category onto its share of the total score.
type Weights struct {
	Technical float64 `json:"technical"`
	Content   float64 `json:"content"`
	UX        float64 `json:"user_experience"`
	Authority float64 `json:"authority"`
}

// CategoryContribution is a category's entry in the transparency breakdown.
type CategoryContribution struct {
	Score        float64           `json:"score"`
	Weight       float64           `json:"weight"`
	Contribution float64           `json:"contribution"`
	Details      []CriterionResult `json:"details"`
}

// AggregateScore is the weighted total of the four category scores.
type AggregateScore struct {
	RawTotal    float64                         `json:"raw_total_score"`
	CappedTotal float64                         `json:"total_score"`
	IsCapped    bool                            `json:"is_capped"`
	Weights     Weights                         `json:"weights"`
	Categories  map[string]CategoryContribution `json:"categories"`
}

// TechnicalDetails are the raw technical signals observed for a page.
type TechnicalDetails struct {
	HasSSL       bool    `json:"has_ssl"`
	ResponseTime float64 `json:"response_time"`
	HasViewport  bool    `json:"has_viewport"`
	HasCanonical bool    `json:"has_canonical"`
	HasRobotsTxt bool    `json:"has_robots_txt"`
	HasSitemap   bool    `json:"has_sitemap"`
	StatusCode   int     `json:"status_code"`
}

// ContentDetails are the raw content signals observed for a page.
type ContentDetails struct {
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	H1Count         int    `json:"h1_count"`
	H1Text          string `json:"h1_text,omitempty"`
	WordCount       int    `json:"word_count"`
}

// UXDetails are the raw user-experience signals observed for a page.
type UXDetails struct {
	TotalImages     int  `json:"total_images"`
	ImagesWithAlt   int  `json:"images_with_alt"`
	LinkCount       int  `json:"link_count"`
	ExternalScripts int  `json:"external_scripts"`
	MobileFriendly  bool `json:"mobile_friendly"`
}

// AnalysisRecord is the durable result of one completed run.
type AnalysisRecord struct {
	ID     int64  `json:"id"`
	SiteID int64  `json:"site_id"`
	URL    string `json:"url"`

	TotalScore     float64 `json:"total_score"`
	RawTotalScore  float64 `json:"raw_total_score"`
	IsCapped       bool    `json:"is_capped"`
	TechnicalScore float64 `json:"technical_score"`
	ContentScore   float64 `json:"content_score"`
	UXScore        float64 `json:"user_experience_score"`
	AuthorityScore float64 `json:"authority_score"`

	Breakdown   AggregateScore     `json:"score_breakdown"`
	Performance PerformanceReport  `json:"pagespeed"`
	Narrative   *NarrativeAnalysis `json:"narrative,omitempty"`

	Technical TechnicalDetails `json:"technical_details"`
	Content   ContentDetails   `json:"content_details"`
	UX        UXDetails        `json:"ux_details"`

	CreatedAt time.Time `json:"created_at"`
}

// Recommendation is an improvement suggestion derived from a record.
type Recommendation struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Priority       string  `json:"priority"`
	Difficulty     string  `json:"difficulty"`
	ExpectedImpact float64 `json:"expected_impact"`
	Category       string  `json:"category"`
}

// LatestAnalysis is the response for a site's most recent completed run.
type LatestAnalysis struct {
	Analysis        AnalysisRecord   `json:"analysis"`
	CoreWebVitals   CoreWebVitals    `json:"core_web_vitals"`
	Recommendations []Recommendation `json:"recommendations"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
