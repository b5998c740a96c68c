package usecase

import (
	"context"
	"strings"

	"dream-analyzer/internal/domain/repository"
)

// DefaultNonDreamKeywords are greetings that get rejected before analysis.
var DefaultNonDreamKeywords = []string{"hii", "hello", "how are you"}

// KeywordFilter rejects text containing any of its keywords. It is a plain
// substring match on the lowercased input.
type KeywordFilter struct {
	keywords []string
}

func NewKeywordFilter(keywords ...string) *KeywordFilter {
	if len(keywords) == 0 {
		keywords = DefaultNonDreamKeywords
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &KeywordFilter{keywords: lowered}
}

func (f *KeywordFilter) IsDreamLike(_ context.Context, text string) bool {
	lower := strings.ToLower(text)
	for _, k := range f.keywords {
		if strings.Contains(lower, k) {
			return false
		}
	}
	return true
}

// ChainFilter passes only when every filter passes, evaluated in order.
type ChainFilter []repository.DreamFilter

func (c ChainFilter) IsDreamLike(ctx context.Context, text string) bool {
	for _, f := range c {
		if !f.IsDreamLike(ctx, text) {
			return false
		}
	}
	return true
}
