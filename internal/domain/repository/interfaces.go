package repository

import (
	"context"

	"dream-analyzer/internal/domain/entity"
)

// TextGenerator performs exactly one call to the generation service.
type TextGenerator interface {
	Generate(ctx context.Context, req entity.GenerationRequest) (string, error)
}

// DreamFilter decides whether a description is worth sending for analysis.
type DreamFilter interface {
	IsDreamLike(ctx context.Context, text string) bool
}

// MarkupConverter turns model markdown into HTML.
type MarkupConverter interface {
	Convert(markdown string) (string, error)
}

type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}
