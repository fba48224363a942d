package analyzer

import (
	"testing"

	"github.com/Bahjat/site-health/backend/internal/model"
)

func ptr(v float64) *float64 { return &v }

func titles(recs []model.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}

func TestRecommendations(t *testing.T) {
	healthy := model.AnalysisRecord{
		TechnicalScore: 90,
		ContentScore:   90,
		UXScore:        90,
		Technical:      model.TechnicalDetails{HasSSL: true, HasSitemap: true},
		Content:        model.ContentDetails{MetaTitle: "A perfectly reasonable page title here", H1Count: 1},
		UX:             model.UXDetails{MobileFriendly: true},
	}

	tests := []struct {
		name   string
		mutate func(*model.AnalysisRecord)
		want   []string
	}{
		{
			name:   "healthy site",
			mutate: func(*model.AnalysisRecord) {},
			want:   []string{},
		},
		{
			name: "weak technical",
			mutate: func(r *model.AnalysisRecord) {
				r.TechnicalScore = 40
				r.Technical = model.TechnicalDetails{}
			},
			want: []string{"Enable HTTPS/SSL", "Create XML Sitemap"},
		},
		{
			name: "signals ignored when category is strong",
			mutate: func(r *model.AnalysisRecord) {
				r.Technical = model.TechnicalDetails{}
				r.Content = model.ContentDetails{}
			},
			want: []string{},
		},
		{
			name: "weak content",
			mutate: func(r *model.AnalysisRecord) {
				r.ContentScore = 50
				r.Content = model.ContentDetails{MetaTitle: "Short", H1Count: 3}
			},
			want: []string{"Optimize Meta Title", "Fix H1 Tag Structure"},
		},
		{
			name: "weak ux",
			mutate: func(r *model.AnalysisRecord) {
				r.UXScore = 30
				r.UX.MobileFriendly = false
			},
			want: []string{"Make Site Mobile-Friendly"},
		},
		{
			name: "slow mobile",
			mutate: func(r *model.AnalysisRecord) {
				r.Performance.Mobile = model.PerformanceMetrics{
					PerformanceScore: 35,
					CoreWebVitals:    model.CoreWebVitals{LCPSeconds: ptr(4.2)},
				}
			},
			want: []string{"Improve Largest Contentful Paint (LCP)"},
		},
		{
			name: "failed mobile audit",
			mutate: func(r *model.AnalysisRecord) {
				r.Performance.Mobile = model.PerformanceMetrics{Error: "PageSpeed API request failed"}
			},
			want: []string{},
		},
		{
			name: "unknown lcp",
			mutate: func(r *model.AnalysisRecord) {
				r.Performance.Mobile = model.PerformanceMetrics{PerformanceScore: 20}
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := healthy
			tt.mutate(&rec)

			got := titles(Recommendations(rec))
			if len(got) != len(tt.want) {
				t.Fatalf("titles = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("titles[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRecommendations_Details(t *testing.T) {
	recs := Recommendations(model.AnalysisRecord{
		TechnicalScore: 100,
		ContentScore:   40,
		UXScore:        100,
		Content:        model.ContentDetails{MetaTitle: "A perfectly reasonable page title here", H1Count: 0},
		UX:             model.UXDetails{MobileFriendly: true},
		Performance: model.PerformanceReport{
			Mobile: model.PerformanceMetrics{
				PerformanceScore: 49,
				CoreWebVitals:    model.CoreWebVitals{LCPSeconds: ptr(3.456)},
			},
		},
	})

	if len(recs) != 2 {
		t.Fatalf("got %v", titles(recs))
	}

	h1 := recs[0]
	if h1.Description != "Your page has 0 H1 tags. There should be exactly one H1 per page." {
		t.Errorf("h1 description = %q", h1.Description)
	}
	if h1.Priority != "medium" || h1.ExpectedImpact != 8 || h1.Category != model.CategoryContent {
		t.Errorf("h1 recommendation = %+v", h1)
	}

	lcp := recs[1]
	if lcp.Description != "Your LCP is 3.46s. Target is under 2.5s. Optimize images and server response time." {
		t.Errorf("lcp description = %q", lcp.Description)
	}
	if lcp.Category != model.CategoryUX {
		t.Errorf("lcp category = %q", lcp.Category)
	}
}
