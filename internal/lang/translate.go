package lang

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/irlens/dsscheck/internal/cache"
	"github.com/irlens/dsscheck/internal/llm"
)

const (
	translationMaxRunes = 30000
	translationTTL      = 24 * time.Hour
)

// Translator converts English earning-call transcripts to Korean through
// the oracle so validation always compares Korean against Korean.
type Translator struct {
	oracle llm.Oracle
	cache  cache.Cache
	log    *zap.Logger
}

// NewTranslator creates a translator. cache may be nil.
func NewTranslator(oracle llm.Oracle, responseCache cache.Cache, log *zap.Logger) *Translator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Translator{oracle: oracle, cache: responseCache, log: log}
}

// Translate returns the Korean rendition of text. Input beyond the rune
// budget is clamped before the oracle call; the budget matches the
// validation prompt's transcript budget, so nothing the validator would see
// is lost.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	clamped := clampRunes(text, translationMaxRunes)
	prompt := llm.BuildTranslationPrompt(clamped)

	key := cache.Key(t.oracle.Name(), t.oracle.Model(), prompt)
	if t.cache != nil {
		if cached, found := t.cache.Get(key); found {
			return string(cached), nil
		}
	}

	t.log.Info("translating transcript to Korean",
		zap.Int("input_runes", len([]rune(clamped))))

	response, err := t.oracle.Complete(ctx, llm.Request{
		Prompt:      prompt,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("translation: %w", err)
	}

	translated := strings.TrimSpace(response)
	if translated == "" {
		return "", fmt.Errorf("translation: empty response")
	}

	if t.cache != nil {
		if err := t.cache.Set(key, []byte(translated), translationTTL); err != nil {
			t.log.Debug("failed to cache translation", zap.Error(err))
		}
	}
	return translated, nil
}

func clampRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
