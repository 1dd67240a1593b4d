package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"unmute-go/internal/types"
)

const chatGreeting = "Hi! I am here to help. Ask me about anti-ragging laws or how to stay safe."

var (
	ErrChatNotFound = errors.New("chat session not found")
	ErrEmptyMessage = errors.New("chat message is empty")
)

type chatSession struct {
	mu       sync.Mutex
	messages []types.ChatMessage
}

// StartChat opens a session seeded with the assistant greeting.
func (s *Service) StartChat() (string, []types.ChatMessage) {
	id := uuid.NewString()
	sess := &chatSession{messages: []types.ChatMessage{{
		ID:   uuid.NewString(),
		Role: types.ChatRoleAssistant,
		Text: chatGreeting,
	}}}

	s.chatMu.Lock()
	s.chats[id] = sess
	s.chatMu.Unlock()
	return id, sess.snapshot()
}

func (s *Service) session(id string) (*chatSession, error) {
	s.chatMu.Lock()
	defer s.chatMu.Unlock()
	sess, ok := s.chats[id]
	if !ok {
		return nil, ErrChatNotFound
	}
	return sess, nil
}

func (s *Service) ChatMessages(sessionID string) ([]types.ChatMessage, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.snapshot(), nil
}

// SendChat appends the user's message immediately, asks the assistant with
// the history that preceded it, and appends the reply.
func (s *Service) SendChat(ctx context.Context, sessionID, text string) (types.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return types.ChatMessage{}, ErrEmptyMessage
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return types.ChatMessage{}, err
	}

	sess.mu.Lock()
	history := append([]types.ChatMessage(nil), sess.messages...)
	sess.messages = append(sess.messages, types.ChatMessage{
		ID:   uuid.NewString(),
		Role: types.ChatRoleUser,
		Text: text,
	})
	sess.mu.Unlock()

	reply := types.ChatMessage{
		ID:   uuid.NewString(),
		Role: types.ChatRoleAssistant,
		Text: s.ai.Chat(context.WithoutCancel(ctx), history, text),
	}

	sess.mu.Lock()
	sess.messages = append(sess.messages, reply)
	sess.mu.Unlock()
	return reply, nil
}

func (c *chatSession) snapshot() []types.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.ChatMessage(nil), c.messages...)
}
