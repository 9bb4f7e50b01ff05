// Package answer produces responses to visitor questions. It composes
// knowledge-base passages and past admin corrections into the model
// prompt; the model's reply is returned verbatim.
package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/fairental/fairbot/internal/event"
)

// ErrUpstream marks a failure of the hosted model. Retrieval failures are
// not upstream errors — the engine degrades to answering without context.
var ErrUpstream = errors.New("answer service unavailable")

const (
	retrievalTopK     = 5
	correctionFetch   = 20
	correctionMaxUsed = 3
	minKeywordLength  = 3
)

// Retriever fetches knowledge-base passages relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]string, error)
}

// CorrectionSource supplies recent admin corrections, newest first.
type CorrectionSource interface {
	RecentCorrections(ctx context.Context, limit int) ([]event.Event, error)
}

// Completer is the hosted model call.
type Completer interface {
	Complete(ctx context.Context, system string, messages []Message, maxTokens int) (string, error)
}

type Engine struct {
	llm         Completer
	kb          Retriever
	corrections CorrectionSource
	logger      *slog.Logger
}

func NewEngine(llm Completer, kb Retriever, corrections CorrectionSource, logger *slog.Logger) *Engine {
	return &Engine{llm: llm, kb: kb, corrections: corrections, logger: logger}
}

// Answer generates a response for question, with the session's prior turns
// as conversation history. Knowledge-base or correction lookups that fail
// are logged and skipped; only a model failure fails the call.
func (e *Engine) Answer(ctx context.Context, question string, history []event.Event) (string, error) {
	system := systemPrompt

	passages, err := e.kb.Retrieve(ctx, question, retrievalTopK)
	if err != nil {
		e.logger.Warn("knowledge base retrieval failed", "error", err)
	} else if len(passages) > 0 {
		system += "\n\nReference material:\n" + strings.Join(passages, "\n---\n")
	}

	recent, err := e.corrections.RecentCorrections(ctx, correctionFetch)
	if err != nil {
		e.logger.Warn("correction lookup failed", "error", err)
	} else if relevant := relevantCorrections(question, recent); len(relevant) > 0 {
		system += "\n\nSupport corrections (treat the corrected answer as current policy):\n" + strings.Join(relevant, "\n---\n")
	}

	messages := historyMessages(history)
	messages = append(messages, Message{Role: "user", Content: question})

	text, err := e.llm.Complete(ctx, system, messages, maxAnswerTokens)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return text, nil
}

// historyMessages converts a session's prior question/answer events into
// alternating chat turns. Correction events are not part of the visitor
// conversation and are skipped.
func historyMessages(history []event.Event) []Message {
	var messages []Message
	for _, ev := range history {
		switch ev.EventType {
		case event.TypeQuestion:
			messages = append(messages, Message{Role: "user", Content: ev.Content})
		case event.TypeAIResponse:
			messages = append(messages, Message{Role: "assistant", Content: ev.Content})
		}
	}
	return messages
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// relevantCorrections selects recent corrections whose text shares a
// keyword with the question. Matching is plain keyword overlap on words
// longer than two characters, capped at correctionMaxUsed entries.
func relevantCorrections(question string, corrections []event.Event) []string {
	queryWords := keywords(question)

	var relevant []string
	for _, c := range corrections {
		if c.EventType != event.TypeCorrection {
			continue
		}
		correctionWords := keywords(c.UserQuestion + " " + c.OriginalAIResponse + " " + c.Content)
		if !overlaps(queryWords, correctionWords) {
			continue
		}
		relevant = append(relevant, fmt.Sprintf(
			"User Question: %s\nOriginal Answer: %s\nCorrected Answer: %s",
			c.UserQuestion, c.OriginalAIResponse, c.Content,
		))
		if len(relevant) >= correctionMaxUsed {
			break
		}
	}
	return relevant
}

func keywords(s string) map[string]bool {
	words := wordPattern.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func overlaps(query, candidate map[string]bool) bool {
	for w := range query {
		if len(w) >= minKeywordLength && candidate[w] {
			return true
		}
	}
	return false
}
