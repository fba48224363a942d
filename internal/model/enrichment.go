package model

// Strategy is the device profile a performance audit runs under.
type Strategy string

const (
	StrategyMobile  Strategy = "mobile"
	StrategyDesktop Strategy = "desktop"
)

// CoreWebVitals holds the page-experience metrics. A nil value is unknown.
type CoreWebVitals struct {
	LCPSeconds *float64 `json:"largest_contentful_paint"`
	FIDMs      *float64 `json:"first_input_delay"`
	CLS        *float64 `json:"cumulative_layout_shift"`
}

// OtherMetrics are human-readable lab metrics reported by the audit.
type OtherMetrics struct {
	FirstContentfulPaint string `json:"first_contentful_paint,omitempty"`
	SpeedIndex           string `json:"speed_index,omitempty"`
	TotalBlockingTime    string `json:"total_blocking_time,omitempty"`
	TimeToInteractive    string `json:"time_to_interactive,omitempty"`
}

// PerformanceMetrics is the normalized audit result for one strategy.
// Error is set instead of the scores when the audit call failed.
type PerformanceMetrics struct {
	Strategy           Strategy      `json:"strategy"`
	PerformanceScore   float64       `json:"performance_score"`
	AccessibilityScore float64       `json:"accessibility_score"`
	BestPracticesScore float64       `json:"best_practices_score"`
	SEOScore           float64       `json:"seo_score"`
	CoreWebVitals      CoreWebVitals `json:"core_web_vitals"`
	OtherMetrics       OtherMetrics  `json:"other_metrics"`
	Error              string        `json:"error,omitempty"`
}

// Failed reports whether the audit for this strategy did not produce metrics.
func (m PerformanceMetrics) Failed() bool {
	return m.Error != ""
}

// PerformanceReport holds exactly one result per strategy.
type PerformanceReport struct {
	Mobile  PerformanceMetrics `json:"mobile"`
	Desktop PerformanceMetrics `json:"desktop"`
}

// NarrativeAnalysis is the free-form model-generated analysis of a run.
type NarrativeAnalysis struct {
	Technical  map[string]any `json:"technical"`
	Content    map[string]any `json:"content"`
	UX         map[string]any `json:"ux"`
	Authority  map[string]any `json:"authority"`
	ActionPlan map[string]any `json:"action_plan"`
}
