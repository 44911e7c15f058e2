package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Service runs conversations against a Completer. It is safe for concurrent
// use; calls for the same conversation id are serialized.
type Service struct {
	store      Store
	completer  Completer
	system     string
	maxHistory int
	log        logrus.FieldLogger
	now        func() time.Time

	locks keyedMutex
}

type Option func(*Service)

func WithSystemPrompt(prompt string) Option {
	return func(s *Service) { s.system = strings.TrimSpace(prompt) }
}

// WithMaxHistory bounds the stored messages per conversation.
func WithMaxHistory(n int) Option {
	return func(s *Service) { s.maxHistory = n }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(store Store, completer Completer, opts ...Option) *Service {
	s := &Service{
		store:      store,
		completer:  completer,
		maxHistory: 50,
		log:        logrus.StandardLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send appends text to the conversation, asks the backend for a reply and
// stores both. Nothing is saved when the backend fails.
func (s *Service) Send(ctx context.Context, conversationID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	unlock := s.locks.lock(conversationID)
	defer unlock()

	conv, err := s.store.Get(ctx, conversationID)
	switch {
	case errors.Is(err, ErrConversationNotFound):
		conv = Conversation{ID: conversationID}
	case err != nil:
		return "", errors.Wrap(err, "load conversation")
	}

	conv.Append(Message{Role: RoleUser, Content: text, CreatedAt: s.now()}, s.maxHistory)
	reply, err := s.completer.Complete(ctx, s.system, conv.Messages)
	if err != nil {
		return "", errors.Wrap(err, "complete conversation")
	}
	conv.Append(Message{Role: RoleAssistant, Content: reply, CreatedAt: s.now()}, s.maxHistory)

	if err := s.store.Save(ctx, conv); err != nil {
		return "", errors.Wrap(err, "save conversation")
	}
	s.log.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"messages":        len(conv.Messages),
	}).Debug("assistant replied")
	return reply, nil
}

// History returns the stored messages of a conversation.
func (s *Service) History(ctx context.Context, conversationID string) ([]Message, error) {
	conv, err := s.store.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return conv.Messages, nil
}

// Reset forgets a conversation.
func (s *Service) Reset(ctx context.Context, conversationID string) error {
	unlock := s.locks.lock(conversationID)
	defer unlock()
	return s.store.Delete(ctx, conversationID)
}

// keyedMutex hands out one mutex per key and frees it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
