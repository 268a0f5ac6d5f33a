package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	domainchat "avtoelon/internal/domain/chat"
)

// Store is the slice of the record-store client the chat feature needs.
type Store interface {
	Messages(ctx context.Context) ([]domainchat.Message, error)
	SendMessage(ctx context.Context, m domainchat.Message) (domainchat.Message, error)
}

// Entry is one message in the local view, with a confirmed flag separating
// store-fetched records from optimistic local appends awaiting confirmation.
type Entry struct {
	domainchat.Message
	Confirmed bool
}

// Service holds the local message view for one screen: the latest fetch of
// the flat message store plus an ordered log of optimistic sends. Sends
// append locally whether or not the POST succeeds; a later Refresh
// reconciles pending entries against the store by message identity rather
// than re-trusting them blindly.
type Service struct {
	Store  Store
	Logger *slog.Logger
	Now    func() time.Time

	mu      sync.Mutex
	fetched []domainchat.Message
	pending []domainchat.Message
}

// Refresh pulls the full message collection and reconciles the optimistic
// log: a pending entry that now appears in the store is confirmed and
// dropped from the log, the rest stay pending.
func (s *Service) Refresh(ctx context.Context) error {
	messages, err := s.Store.Messages(ctx)
	if err != nil {
		s.logError("message fetch failed", err)
		return fmt.Errorf("chat: refresh: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = messages
	still := s.pending[:0]
	for _, p := range s.pending {
		if containsMessage(messages, p) {
			continue
		}
		still = append(still, p)
	}
	s.pending = still
	return nil
}

// Conversations refreshes the local view and aggregates it into one summary
// per counterpart, in first-seen order.
func (s *Service) Conversations(ctx context.Context, current string) ([]domainchat.ConversationSummary, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return domainchat.Aggregate(s.snapshot(), current), nil
}

// History refreshes the local view and filters it to the exchange with one
// counterpart, preserving store order with pending sends at the tail.
func (s *Service) History(ctx context.Context, current, counterpart string) ([]domainchat.Message, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return domainchat.History(s.snapshot(), current, counterpart), nil
}

// Send validates the draft, appends it to the local view and then issues a
// single POST. The local append is not rolled back when the POST fails; the
// entry stays pending and the error is returned for the caller to surface.
// Exactly one attempt is made, with no retry and no idempotency key.
func (s *Service) Send(ctx context.Context, current, counterpart, text string) (domainchat.Message, error) {
	if strings.TrimSpace(text) == "" {
		return domainchat.Message{}, domainchat.ErrEmptyText
	}
	if counterpart == "" {
		return domainchat.Message{}, domainchat.ErrNoCounterpart
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	msg := domainchat.Message{
		Sender:    current,
		Receiver:  counterpart,
		Text:      text,
		Timestamp: now().UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	s.pending = append(s.pending, msg)
	s.mu.Unlock()

	if _, err := s.Store.SendMessage(ctx, msg); err != nil {
		s.logError("message send failed", err)
		return msg, fmt.Errorf("chat: send: %w", err)
	}
	s.confirm(msg)
	return msg, nil
}

// Messages returns the current local view: the last fetch followed by any
// still-pending optimistic entries.
func (s *Service) Messages() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]Entry, 0, len(s.fetched)+len(s.pending))
	for _, m := range s.fetched {
		entries = append(entries, Entry{Message: m, Confirmed: true})
	}
	for _, m := range s.pending {
		entries = append(entries, Entry{Message: m})
	}
	return entries
}

// snapshot flattens fetched plus pending for the pure aggregation helpers.
func (s *Service) snapshot() []domainchat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]domainchat.Message, 0, len(s.fetched)+len(s.pending))
	all = append(all, s.fetched...)
	all = append(all, s.pending...)
	return all
}

// confirm moves a pending entry into the fetched set after the store
// acknowledged the write.
func (s *Service) confirm(msg domainchat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	still := s.pending[:0]
	for _, p := range s.pending {
		if p.Same(msg) {
			s.fetched = append(s.fetched, p)
			continue
		}
		still = append(still, p)
	}
	s.pending = still
}

func containsMessage(messages []domainchat.Message, m domainchat.Message) bool {
	for _, candidate := range messages {
		if candidate.Same(m) {
			return true
		}
	}
	return false
}

func (s *Service) logError(msg string, err error) {
	if s.Logger == nil {
		return
	}
	s.Logger.Error(msg, "error", err)
}
