// Package narrative asks a language model for free-form analyses of a run
// and falls back to fixed payloads whenever the model is unavailable.
package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"text/template"

	"golang.org/x/sync/errgroup"

	"github.com/Bahjat/site-health/backend/internal/model"
)

// Input is what the prompts are rendered from.
type Input struct {
	URL        string
	TotalScore float64
	Technical  model.TechnicalDetails
	Content    model.ContentDetails
	UX         model.UXDetails
	// HTML is the raw markup; only an excerpt is sent.
	HTML string
	// PageText is the visible page text; only an excerpt is sent.
	PageText string
}

// promptData is Input with excerpts applied and the domain derived.
type promptData struct {
	Input
	Domain string
}

// Enricher produces a NarrativeAnalysis for one run.
type Enricher struct {
	llm    Completer
	logger *slog.Logger
}

// NewEnricher returns an Enricher. A nil Completer disables model calls and
// every section is answered with its fallback.
func NewEnricher(llm Completer, logger *slog.Logger) *Enricher {
	return &Enricher{llm: llm, logger: logger}
}

// Analyze runs the four category analyses concurrently, then the action plan.
// It never fails: each call that errors is replaced by its fallback.
func (e *Enricher) Analyze(ctx context.Context, in Input) *model.NarrativeAnalysis {
	if e.llm == nil {
		e.logger.InfoContext(ctx, "narrative analysis disabled, using fallbacks", slog.String("url", in.URL))
		return &model.NarrativeAnalysis{
			Technical:  fallbackTechnical(),
			Content:    fallbackContent(),
			UX:         fallbackUX(),
			Authority:  fallbackAuthority(),
			ActionPlan: fallbackActionPlan(),
		}
	}

	data := promptData{Input: in, Domain: domainOf(in.URL)}
	data.HTML = truncate(in.HTML, htmlExcerptLimit)
	data.PageText = truncate(in.PageText, pageTextLimit)

	out := &model.NarrativeAnalysis{}

	// Tasks never return an error; failures are isolated into fallbacks.
	var g errgroup.Group
	g.Go(func() error {
		out.Technical = e.ask(ctx, model.CategoryTechnical, technicalPrompt, data, fallbackTechnical)
		return nil
	})
	g.Go(func() error {
		out.Content = e.ask(ctx, model.CategoryContent, contentPrompt, data, fallbackContent)
		return nil
	})
	g.Go(func() error {
		out.UX = e.ask(ctx, model.CategoryUX, uxPrompt, data, fallbackUX)
		return nil
	})
	g.Go(func() error {
		out.Authority = e.ask(ctx, model.CategoryAuthority, authorityPrompt, data, fallbackAuthority)
		return nil
	})
	_ = g.Wait()

	plan := planData{
		URL:        in.URL,
		TotalScore: in.TotalScore,
		Summaries: []summary{
			{Category: model.CategoryTechnical, Assessment: assessment(out.Technical)},
			{Category: model.CategoryContent, Assessment: assessment(out.Content)},
			{Category: model.CategoryUX, Assessment: assessment(out.UX)},
			{Category: model.CategoryAuthority, Assessment: assessment(out.Authority)},
		},
	}
	out.ActionPlan = e.ask(ctx, "action_plan", actionPlanPrompt, plan, fallbackActionPlan)

	return out
}

// ask renders a prompt, calls the model and decodes its JSON answer.
func (e *Enricher) ask(
	ctx context.Context,
	section string,
	tmpl *template.Template,
	data any,
	fallback func() map[string]any,
) map[string]any {
	obj, err := e.complete(ctx, tmpl, data)
	if err != nil {
		e.logger.WarnContext(ctx, "narrative call failed, using fallback",
			slog.String("section", section),
			slog.Any("error", err),
		)
		return fallback()
	}
	return obj
}

func (e *Enricher) complete(ctx context.Context, tmpl *template.Template, data any) (map[string]any, error) {
	prompt, err := render(tmpl, data)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	text, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return extractObject(text)
}

func assessment(section map[string]any) string {
	if s, ok := section["overall_assessment"].(string); ok && s != "" {
		return s
	}
	return "(no assessment)"
}

func domainOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
