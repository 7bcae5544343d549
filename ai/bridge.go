package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"askyourdata/cache"
	"askyourdata/models"
)

// Generator produces model output for a prompt. *Service implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TranslateRequest carries everything the model sees about a question.
type TranslateRequest struct {
	Question   string
	Schema     models.Schema
	SampleRows []models.Row
	TableName  string
}

// Bridge turns questions into queries. It never fails: model errors and
// unparseable replies degrade to DefaultQuery.
type Bridge struct {
	gen     Generator
	cache   *cache.Cache
	timeout time.Duration
}

func NewBridge(gen Generator, c *cache.Cache, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Bridge{gen: gen, cache: c, timeout: timeout}
}

func (b *Bridge) Translate(ctx context.Context, req TranslateRequest) Translation {
	cacheKey := fmt.Sprintf("translate:%s:%s", req.TableName, strings.TrimSpace(req.Question))
	if b.cache != nil {
		if cached, found := b.cache.Get(cacheKey); found {
			log.Printf("[AI] Translation cache hit for table %s", req.TableName)
			return cached.(Translation)
		}
	}

	if b.gen == nil {
		return b.fallback(req.TableName, models.ErrExternalModelUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	prompt := BuildQueryPrompt(req.Question, req.Schema, req.SampleRows, req.TableName)
	reply, err := b.gen.Generate(ctx, prompt)
	if err != nil {
		return b.fallback(req.TableName, err)
	}

	t := Extract(reply, req.TableName)
	log.Printf("[AI] Extracted query via %s strategy: %s", t.Source, t.Query)
	if t.Source == SourceDefault {
		log.Printf("[AI] %v; using default query", models.ErrModelResponseUnparseable)
		return t
	}
	if b.cache != nil {
		b.cache.SetDefault(cacheKey, t)
	}
	return t
}

func (b *Bridge) fallback(tableName string, err error) Translation {
	log.Printf("[AI] Error calling model: %v", err)
	return Translation{
		Query:       DefaultQuery(tableName),
		Explanation: errorExplanation,
		Source:      SourceError,
	}
}
