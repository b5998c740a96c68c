package usecase

import (
	"context"
	"fmt"
	"strings"

	"dream-analyzer/internal/domain/entity"
	"dream-analyzer/internal/domain/repository"
	"dream-analyzer/internal/metrics"
)

type AnalyzerConfig struct {
	HasAPIKey bool
	Model     string
}

type DreamAnalyzer struct {
	cfg       AnalyzerConfig
	filter    repository.DreamFilter
	provider  *ResilientProvider
	converter repository.MarkupConverter
	metrics   *metrics.Collector
}

// NewDreamAnalyzer wires the analysis flow. provider may be nil when no API
// key is configured.
func NewDreamAnalyzer(cfg AnalyzerConfig, filter repository.DreamFilter, provider *ResilientProvider, converter repository.MarkupConverter, m *metrics.Collector) *DreamAnalyzer {
	return &DreamAnalyzer{cfg: cfg, filter: filter, provider: provider, converter: converter, metrics: m}
}

func (a *DreamAnalyzer) Analyze(ctx context.Context, req entity.DreamRequest) (*entity.AnalysisResult, error) {
	// 1. Configuration
	if !a.cfg.HasAPIKey || a.provider == nil {
		a.metrics.RecordAnalysis("config_error")
		return nil, entity.ErrMissingAPIKey
	}

	// 2. Input validation. Whitespace-only text counts as empty.
	if strings.TrimSpace(req.Description) == "" {
		a.metrics.RecordAnalysis("invalid")
		return nil, entity.ErrEmptyDream
	}
	if !a.filter.IsDreamLike(ctx, req.Description) {
		a.metrics.RecordAnalysis("rejected")
		return nil, entity.ErrNotADream
	}

	// 3. Generation with retries
	out := a.provider.Generate(ctx, entity.GenerationRequest{
		Model:  a.cfg.Model,
		Prompt: req.Description,
		Config: entity.NewGenerationConfig(),
	})

	switch out.Kind {
	case OutcomeExhausted:
		a.metrics.RecordAnalysis("busy")
		return nil, entity.ErrUpstreamBusy
	case OutcomeFailed:
		a.metrics.RecordAnalysis("upstream_error")
		return nil, out.Err
	}

	if strings.TrimSpace(out.Text) == "" {
		a.metrics.RecordAnalysis("upstream_error")
		return nil, entity.ErrEmptyResponse
	}

	// 4. Markdown to HTML
	html, err := a.converter.Convert(out.Text)
	if err != nil {
		return nil, fmt.Errorf("convert analysis markdown: %w", err)
	}

	a.metrics.RecordAnalysis("success")
	return &entity.AnalysisResult{HTML: html, Model: a.cfg.Model, Attempts: out.Attempts}, nil
}
