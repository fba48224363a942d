package narrative

const configureKey = "Configure an LLM API key to enable detailed analysis."

func unavailable(area string) string {
	return "LLM analysis is unavailable. Only the basic " + area + " analysis was run."
}

func fallbackTechnical() map[string]any {
	return map[string]any{
		"overall_assessment":           unavailable("technical"),
		"critical_issues":              []any{},
		"strengths":                    []any{},
		"improvements":                 []any{},
		"technical_score_breakdown":    map[string]any{},
		"professional_recommendations": []any{configureKey},
	}
}

func fallbackContent() map[string]any {
	return map[string]any{
		"overall_assessment":           unavailable("content"),
		"title_analysis":               map[string]any{},
		"meta_description_analysis":    map[string]any{},
		"heading_structure":            map[string]any{},
		"content_quality":              map[string]any{},
		"keyword_analysis":             map[string]any{},
		"content_gaps":                 []any{},
		"competitive_advantages":       []any{},
		"professional_recommendations": []any{configureKey},
	}
}

func fallbackUX() map[string]any {
	return map[string]any{
		"overall_assessment":           unavailable("UX"),
		"mobile_experience":            map[string]any{},
		"visual_hierarchy":             map[string]any{},
		"image_optimization":           map[string]any{},
		"navigation_and_links":         map[string]any{},
		"accessibility":                map[string]any{},
		"user_engagement_factors":      map[string]any{},
		"core_web_vitals_insights":     map[string]any{},
		"professional_recommendations": []any{configureKey},
	}
}

func fallbackAuthority() map[string]any {
	return map[string]any{
		"overall_assessment":           unavailable("authority"),
		"eeat_analysis":                map[string]any{},
		"schema_markup":                map[string]any{},
		"social_proof":                 map[string]any{},
		"content_credibility":          map[string]any{},
		"brand_signals":                map[string]any{},
		"trust_indicators":             map[string]any{},
		"competitive_positioning":      map[string]any{},
		"professional_recommendations": []any{configureKey},
	}
}

func fallbackActionPlan() map[string]any {
	return map[string]any{
		"executive_summary":          "LLM analysis is unavailable. " + configureKey,
		"priority_actions":           []any{},
		"30_day_plan":                map[string]any{},
		"60_day_plan":                map[string]any{},
		"90_day_plan":                map[string]any{},
		"quick_wins":                 []any{},
		"long_term_strategy":         "",
		"monitoring_recommendations": []any{},
	}
}
