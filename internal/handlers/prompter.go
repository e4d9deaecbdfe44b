package handlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/blondy007/Impostor/internal/words"
)

// PendingDecision is a modal question waiting for the device to answer.
type PendingDecision struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	PrimaryLabel   string    `json:"primaryLabel"`
	SecondaryLabel string    `json:"secondaryLabel"`
}

// Notice is a terminal informational message for the device to show.
type Notice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// HTTPPrompter implements words.Prompter over the HTTP boundary. A decision
// parks the resolving goroutine on a channel until the device POSTs an
// answer; the rest of the UI stays responsive because only that one
// resolution blocks. An expired context counts as declining.
type HTTPPrompter struct {
	mu      sync.Mutex
	pending *PendingDecision
	answers chan words.Choice
	notices []Notice
	log     *logrus.Logger
}

func NewHTTPPrompter(log *logrus.Logger) *HTTPPrompter {
	return &HTTPPrompter{log: log}
}

// PresentDecision implements words.Prompter.
func (p *HTTPPrompter) PresentDecision(ctx context.Context, title, message, primaryLabel, secondaryLabel string) (words.Choice, error) {
	p.mu.Lock()
	if p.pending != nil {
		p.mu.Unlock()
		return words.ChoiceSecondary, fmt.Errorf("another decision is already pending")
	}
	decision := &PendingDecision{
		ID:             uuid.New(),
		Title:          title,
		Message:        message,
		PrimaryLabel:   primaryLabel,
		SecondaryLabel: secondaryLabel,
	}
	answers := make(chan words.Choice, 1)
	p.pending = decision
	p.answers = answers
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.pending = nil
		p.answers = nil
		p.mu.Unlock()
	}()

	select {
	case choice := <-answers:
		return choice, nil
	case <-ctx.Done():
		p.log.Debug("decision prompt expired without an answer")
		return words.ChoiceSecondary, ctx.Err()
	}
}

// PresentInfo implements words.Prompter.
func (p *HTTPPrompter) PresentInfo(_ context.Context, title, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, Notice{Title: title, Message: message})
}

// Pending returns the decision currently awaiting an answer, if any.
func (p *HTTPPrompter) Pending() *PendingDecision {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return nil
	}
	snapshot := *p.pending
	return &snapshot
}

// Answer resolves the pending decision. The decision ID must match, so a
// stale answer from a dismissed dialog cannot resolve a newer question.
func (p *HTTPPrompter) Answer(decisionID uuid.UUID, choice words.Choice) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil || p.pending.ID != decisionID {
		return fmt.Errorf("no matching pending decision")
	}
	p.answers <- choice
	p.pending = nil
	p.answers = nil
	return nil
}

// DrainNotices returns and clears the queued notices.
func (p *HTTPPrompter) DrainNotices() []Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	notices := p.notices
	p.notices = nil
	return notices
}
