package advice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erazemk/gestextintor/internal/metrics"
)

const (
	// FallbackAnswer replaces the answer whenever the model cannot be reached.
	FallbackAnswer = "Desculpe, não foi possível contactar o assistente de segurança de momento."

	// EmptyAnswer is shown when the model answers with no text.
	EmptyAnswer = "Erro ao processar consulta."
)

var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrBusy          = errors.New("another question is being answered")
)

// Generator produces an answer for a question.
type Generator interface {
	Generate(ctx context.Context, question string) (string, error)
}

// Roles of transcript messages.
const (
	RoleUser      = "user"
	RoleAssistant = "ai"
)

// Message is one line of the conversation.
type Message struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Assistant is a single conversation. Only one question may be outstanding
// at a time.
type Assistant struct {
	gen  Generator
	busy atomic.Bool

	mu         sync.Mutex
	transcript []Message
}

// NewAssistant creates an assistant backed by gen.
func NewAssistant(gen Generator) *Assistant {
	return &Assistant{gen: gen}
}

// Busy reports whether a question is outstanding.
func (a *Assistant) Busy() bool {
	return a.busy.Load()
}

// Ask sends question to the model and returns the answer. Model failures are
// logged and turned into FallbackAnswer; only ErrEmptyQuestion and ErrBusy are
// returned as errors.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	if !a.busy.CompareAndSwap(false, true) {
		metrics.ObserveAdvice(metrics.AdviceBusy)
		return "", ErrBusy
	}
	defer a.busy.Store(false)

	a.appendMessage(RoleUser, question)

	answer, err := a.gen.Generate(ctx, question)
	switch {
	case err != nil:
		slog.Error("safety advice request failed", "error", err)
		metrics.ObserveAdvice(metrics.AdviceFallback)
		answer = FallbackAnswer
	case answer == "":
		metrics.ObserveAdvice(metrics.AdviceFallback)
		answer = EmptyAnswer
	default:
		metrics.ObserveAdvice(metrics.AdviceOK)
	}

	a.appendMessage(RoleAssistant, answer)
	return answer, nil
}

// Transcript returns a copy of the conversation so far.
func (a *Assistant) Transcript() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Message(nil), a.transcript...)
}

func (a *Assistant) clearTranscript() {
	a.mu.Lock()
	a.transcript = nil
	a.mu.Unlock()
}

func (a *Assistant) appendMessage(role, text string) {
	a.mu.Lock()
	a.transcript = append(a.transcript, Message{Role: role, Text: text, At: time.Now()})
	a.mu.Unlock()
}

// Registry hands out one assistant per user. Entries live until Forget, so
// the map holds at most one assistant per registered user.
type Registry struct {
	gen Generator

	mu         sync.Mutex
	assistants map[string]*Assistant
}

// NewRegistry creates an empty registry backed by gen.
func NewRegistry(gen Generator) *Registry {
	return &Registry{gen: gen, assistants: make(map[string]*Assistant)}
}

// For returns the assistant of userID, creating it on first use.
func (r *Registry) For(userID string) *Assistant {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assistants[userID]
	if !ok {
		a = NewAssistant(r.gen)
		r.assistants[userID] = a
	}
	return a
}

// Forget drops the conversation of userID. An assistant with a question in
// flight stays registered with an empty transcript so the next session still
// sees it busy; the pending answer lands in that transcript.
func (r *Registry) Forget(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assistants[userID]
	if !ok {
		return
	}
	if a.Busy() {
		a.clearTranscript()
		return
	}
	delete(r.assistants, userID)
}
