package controller_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"unmute-go/internal/types"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Categorize(ctx context.Context, text string) string {
	return m.Called(ctx, text).String(0)
}

func (m *MockGateway) Transcribe(ctx context.Context, payload, mimeType string) (string, error) {
	args := m.Called(ctx, payload, mimeType)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) Analyze(ctx context.Context, text string) string {
	return m.Called(ctx, text).String(0)
}

func (m *MockGateway) Chat(ctx context.Context, history []types.ChatMessage, message string) string {
	return m.Called(ctx, history, message).String(0)
}

func (m *MockGateway) Search(ctx context.Context, query string) types.SearchResult {
	return m.Called(ctx, query).Get(0).(types.SearchResult)
}

func (m *MockGateway) Speak(ctx context.Context, text string) (string, bool) {
	args := m.Called(ctx, text)
	return args.String(0), args.Bool(1)
}

type MockSpeaker struct {
	mock.Mock
}

func (m *MockSpeaker) PlayBase64(ctx context.Context, payload string) bool {
	return m.Called(ctx, payload).Bool(0)
}
