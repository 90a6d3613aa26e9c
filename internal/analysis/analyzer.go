// Package analysis asks a chat completion provider for a canned literary
// analysis of a book.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abdulachik/gutenshelf/internal/cache"
)

// MaxExcerptChars is how much of a book's text is sent to the provider.
const MaxExcerptChars = 25000

// Completer sends a conversation to a completion provider.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (json.RawMessage, error)
}

// Result is the provider response, passed through as received.
type Result struct {
	Raw json.RawMessage
}

// Text returns the first choice's message content, or "" when the response
// does not have the usual chat completion shape.
func (r *Result) Text() string {
	var body struct {
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(r.Raw, &body); err != nil || len(body.Choices) == 0 {
		return ""
	}
	return body.Choices[0].Message.Content
}

// Analyzer builds the analysis prompt for a record and forwards it.
type Analyzer struct {
	completer Completer
}

// New creates an Analyzer.
func New(completer Completer) *Analyzer {
	return &Analyzer{completer: completer}
}

// Analyze requests an analysis of record. Provider failures are returned as is.
func (a *Analyzer) Analyze(ctx context.Context, record *cache.BookRecord) (*Result, error) {
	raw, err := a.completer.Complete(ctx, BuildMessages(record))
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}
	return &Result{Raw: raw}, nil
}

// BuildMessages returns the system and user messages for record.
func BuildMessages(record *cache.BookRecord) []Message {
	return []Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: fmt.Sprintf(AnalysisPrompt, subject(record))},
	}
}

// subject is the leading excerpt of the content, or the title when the
// record has no content.
func subject(record *cache.BookRecord) string {
	if !record.HasContent() || *record.Content == "" {
		return record.Title
	}
	return truncateRunes(*record.Content, MaxExcerptChars)
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
