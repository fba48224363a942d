package narrative

import (
	"strings"
	"text/template"
	"unicode/utf8"
)

const (
	htmlExcerptLimit = 5000
	pageTextLimit    = 3000
)

var funcs = template.FuncMap{
	"truncate": truncate,
	"yesno": func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	},
	"orUnset": func(s string) string {
		if s == "" {
			return "(not set)"
		}
		return s
	},
}

var (
	technicalPrompt = template.Must(template.New("technical").Funcs(funcs).Parse(
		`You are a professional technical SEO consultant.
Analyse the technical SEO state of the following website in detail.

URL: {{.URL}}

Technical data:
- HTTPS: {{yesno .Technical.HasSSL}}
- Response time: {{printf "%.2f" .Technical.ResponseTime}}s
- Status code: {{.Technical.StatusCode}}
- Viewport meta: {{yesno .Technical.HasViewport}}
- Canonical link: {{yesno .Technical.HasCanonical}}
- robots.txt: {{yesno .Technical.HasRobotsTxt}}
- sitemap.xml: {{yesno .Technical.HasSitemap}}

HTML excerpt:
{{truncate .HTML 2000}}

Answer in JSON with this shape:
{
  "overall_assessment": "2-3 sentence summary of the technical SEO state",
  "critical_issues": [{"issue": "", "impact": "high/medium/low", "explanation": "", "solution": ""}],
  "strengths": [""],
  "improvements": [{"area": "", "current_state": "", "recommended_state": "", "implementation_steps": [""], "expected_impact": "", "difficulty": "easy/moderate/hard", "priority": "high/medium/low"}],
  "technical_score_breakdown": {
    "https_security": {"score": 0, "note": ""},
    "site_speed": {"score": 0, "note": ""},
    "crawlability": {"score": 0, "note": ""},
    "mobile_optimization": {"score": 0, "note": ""},
    "structured_data": {"score": 0, "note": ""}
  },
  "professional_recommendations": [""]
}

Respond with valid JSON only.`))

	contentPrompt = template.Must(template.New("content").Funcs(funcs).Parse(
		`You are a professional content SEO specialist.
Analyse the content SEO of the following page in detail.

URL: {{.URL}}
Title: {{orUnset .Content.MetaTitle}}
Meta description: {{orUnset .Content.MetaDescription}}

Content data:
- Word count: {{.Content.WordCount}}
- H1 count: {{.Content.H1Count}}
- H1 text: {{orUnset .Content.H1Text}}

Page text excerpt:
{{truncate .PageText 3000}}

Answer in JSON with this shape:
{
  "overall_assessment": "2-3 sentence evaluation of the content SEO",
  "title_analysis": {"score": 0, "length_assessment": "", "keyword_placement": "", "recommendations": [""], "suggested_titles": [""]},
  "meta_description_analysis": {"score": 0, "quality_assessment": "", "cta_presence": "", "recommendations": [""], "suggested_descriptions": [""]},
  "heading_structure": {"score": 0, "hierarchy_assessment": "", "h1_analysis": "", "improvements": [""]},
  "content_quality": {"score": 0, "depth_assessment": "", "readability": "", "engagement_potential": "", "expertise_signals": "", "recommendations": [""]},
  "keyword_analysis": {"primary_keywords_detected": [""], "keyword_density_assessment": "", "semantic_relevance": "", "recommendations": [""]},
  "content_gaps": [{"gap": "", "why_important": "", "how_to_add": ""}],
  "competitive_advantages": [""],
  "professional_recommendations": [""]
}

Respond with valid JSON only.`))

	uxPrompt = template.Must(template.New("ux").Funcs(funcs).Parse(
		`You are a professional UX/UI and SEO specialist.
Analyse the user experience of the following website and its effect on SEO.

URL: {{.URL}}

UX data:
- Total images: {{.UX.TotalImages}}
- Images with alt text: {{.UX.ImagesWithAlt}}
- Links: {{.UX.LinkCount}}
- External scripts: {{.UX.ExternalScripts}}
- Mobile friendly: {{yesno .UX.MobileFriendly}}

HTML excerpt:
{{truncate .HTML 2000}}

Answer in JSON with this shape:
{
  "overall_assessment": "2-3 sentence UX evaluation from an SEO perspective",
  "mobile_experience": {"score": 0, "viewport_configuration": "", "responsive_design_assessment": "", "touch_target_sizing": "", "recommendations": [""]},
  "visual_hierarchy": {"score": 0, "layout_assessment": "", "content_prioritization": "", "recommendations": [""]},
  "image_optimization": {"score": 0, "alt_text_coverage": "", "alt_text_quality": "", "image_loading_strategy": "", "recommendations": [""]},
  "navigation_and_links": {"score": 0, "internal_linking_strategy": "", "navigation_clarity": "", "recommendations": [""]},
  "accessibility": {"score": 0, "semantic_html_usage": "", "aria_implementation": "", "color_contrast": "", "recommendations": [""]},
  "user_engagement_factors": {"page_scannability": "", "cta_visibility": "", "content_formatting": "", "recommendations": [""]},
  "core_web_vitals_insights": {"lcp_optimization_tips": [""], "fid_optimization_tips": [""], "cls_optimization_tips": [""]},
  "professional_recommendations": [""]
}

Respond with valid JSON only.`))

	authorityPrompt = template.Must(template.New("authority").Funcs(funcs).Parse(
		`You are a professional SEO consultant and an expert in E-E-A-T (experience, expertise, authoritativeness, trustworthiness).
Analyse the authority and trust signals of the following website.

URL: {{.URL}}
Domain: {{.Domain}}

HTML excerpt:
{{truncate .HTML 3000}}

Answer in JSON with this shape:
{
  "overall_assessment": "2-3 sentence evaluation of authority and trust",
  "eeat_analysis": {
    "experience_signals": {"score": 0, "detected_signals": [""], "missing_signals": [""], "recommendations": [""]},
    "expertise_signals": {"score": 0, "detected_signals": [""], "author_credentials": "", "recommendations": [""]},
    "authoritativeness_signals": {"score": 0, "detected_signals": [""], "brand_presence": "", "recommendations": [""]},
    "trust_signals": {"score": 0, "detected_signals": [""], "transparency_elements": "", "recommendations": [""]}
  },
  "schema_markup": {"score": 0, "implemented_schemas": [""], "missing_critical_schemas": [""], "implementation_quality": "", "recommendations": [""]},
  "social_proof": {"score": 0, "og_tags_quality": "", "twitter_cards_quality": "", "social_sharing_optimization": "", "recommendations": [""]},
  "content_credibility": {"citation_presence": "", "fact_checking_signals": "", "update_freshness": "", "recommendations": [""]},
  "brand_signals": {"brand_consistency": "", "unique_value_proposition": "", "professional_presentation": "", "recommendations": [""]},
  "trust_indicators": {"contact_information": "", "privacy_policy": "", "terms_of_service": "", "security_indicators": "", "recommendations": [""]},
  "competitive_positioning": {"strengths": [""], "weaknesses": [""], "opportunities": [""]},
  "professional_recommendations": [""]
}

Respond with valid JSON only.`))

	actionPlanPrompt = template.Must(template.New("action_plan").Funcs(funcs).Parse(
		`You are a professional SEO strategist.
Create a comprehensive, prioritised 90-day SEO improvement plan for the following website.

Site URL: {{.URL}}
Current total score: {{printf "%.1f" .TotalScore}}/100

Category assessments:
{{range .Summaries}}- {{.Category}}: {{.Assessment}}
{{end}}
Answer in JSON with this shape:
{
  "executive_summary": "3-4 sentence executive summary",
  "priority_actions": [{"title": "", "category": "technical/content/ux/authority", "priority": "critical/high/medium/low", "effort": "1-5", "expected_impact": "1-10", "timeline": "", "steps": [""], "required_resources": [""], "kpis": [""]}],
  "30_day_plan": {"focus_areas": [""], "expected_score_improvement": "", "key_deliverables": [""]},
  "60_day_plan": {"focus_areas": [""], "expected_score_improvement": "", "key_deliverables": [""]},
  "90_day_plan": {"focus_areas": [""], "expected_score_improvement": "", "key_deliverables": [""]},
  "quick_wins": [""],
  "long_term_strategy": "",
  "monitoring_recommendations": [""]
}

Respond with valid JSON only.`))
)

// summary is one category's headline assessment fed into the action plan.
type summary struct {
	Category   string
	Assessment string
}

type planData struct {
	URL        string
	TotalScore float64
	Summaries  []summary
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// truncate keeps at most n characters of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
