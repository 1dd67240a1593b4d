package gateway_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"unmute-go/internal/gateway"
	"unmute-go/internal/logger"
	"unmute-go/internal/types"
)

type call struct {
	model    string
	contents []*genai.Content
	cfg      *genai.GenerateContentConfig
}

// fakeBackend replays scripted results in order; the last one repeats.
type fakeBackend struct {
	mu      sync.Mutex
	calls   []call
	results []result
}

type result struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeBackend) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{model, contents, cfg})
	i := len(f.calls) - 1
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i].resp, f.results[i].err
}

func text(s string) result {
	return result{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(s, genai.RoleModel)}},
	}}
}

func failure(msg string) result {
	return result{err: errors.New(msg)}
}

func newClient(results ...result) (*gateway.Client, *fakeBackend) {
	fb := &fakeBackend{results: results}
	opts := gateway.DefaultOptions()
	opts.MaxRetries = 0
	return gateway.New(fb, opts, logger.Discard()), fb
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		res  result
		want string
	}{
		{"plain word", text("Verbal\n"), "Verbal"},
		{"markdown emphasis", text("**Physical**."), "Physical"},
		{"sentence", text("Cyber, because it happened online"), "Cyber"},
		{"empty answer", text("   "), "Uncategorized"},
		{"service error", failure("503 unavailable"), types.CategoryFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fb := newClient(tt.res)
			assert.Equal(t, tt.want, c.Categorize(context.Background(), "Test incident"))
			require.Len(t, fb.calls, 1)
			assert.Equal(t, "gemini-flash-lite-latest", fb.calls[0].model)
			assert.Contains(t, fb.calls[0].contents[0].Parts[0].Text, `"Test incident"`)
		})
	}
}

func TestTranscribe(t *testing.T) {
	clip := []byte("webm-bytes")
	payload := base64.StdEncoding.EncodeToString(clip)

	c, fb := newClient(text("they took my phone"))
	got, err := c.Transcribe(context.Background(), payload, "")
	require.NoError(t, err)
	assert.Equal(t, "they took my phone", got)

	parts := fb.calls[0].contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, clip, parts[0].InlineData.Data)
	assert.Equal(t, "audio/webm", parts[0].InlineData.MIMEType)
	assert.Equal(t, "Transcribe this audio exactly as spoken.", parts[1].Text)
}

func TestTranscribe_PropagatesFailure(t *testing.T) {
	c, _ := newClient(failure("quota exceeded"))
	_, err := c.Transcribe(context.Background(), "AAAA", "audio/ogg")
	assert.ErrorContains(t, err, "quota exceeded")

	_, err = c.Transcribe(context.Background(), "***", "audio/ogg")
	assert.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	c, fb := newClient(text("Severity: high"))
	assert.Equal(t, "Severity: high", c.Analyze(context.Background(), "x"))
	cfg := fb.calls[0].cfg
	require.NotNil(t, cfg)
	require.NotNil(t, cfg.ThinkingConfig)
	assert.Equal(t, int32(32768), *cfg.ThinkingConfig.ThinkingBudget)
	assert.Equal(t, "gemini-3-pro-preview", fb.calls[0].model)

	c, _ = newClient(failure("boom"))
	assert.Equal(t, "Error generating analysis.", c.Analyze(context.Background(), "x"))

	c, _ = newClient(text(""))
	assert.Equal(t, "Analysis unavailable.", c.Analyze(context.Background(), "x"))
}

func TestChat(t *testing.T) {
	history := []types.ChatMessage{
		{ID: "0", Role: types.ChatRoleAssistant, Text: "Hi!"},
		{ID: "1", Role: types.ChatRoleUser, Text: "What is ragging?"},
		{ID: "2", Role: types.ChatRoleAssistant, Text: "It is..."},
	}
	c, fb := newClient(text("Call the helpline."))
	assert.Equal(t, "Call the helpline.", c.Chat(context.Background(), history, "Who do I call?"))

	got := fb.calls[0]
	require.Len(t, got.contents, 4)
	assert.EqualValues(t, "model", got.contents[0].Role)
	assert.EqualValues(t, "user", got.contents[1].Role)
	assert.Equal(t, "Who do I call?", got.contents[3].Parts[0].Text)
	require.NotNil(t, got.cfg.SystemInstruction)
	assert.Contains(t, got.cfg.SystemInstruction.Parts[0].Text, "UnMute")

	c, _ = newClient(failure("down"))
	assert.Equal(t, "I'm having trouble connecting right now. Please try again later.",
		c.Chat(context.Background(), nil, "hello"))
}

func TestSearch_DedupesLinks(t *testing.T) {
	res := text("Helpline 1800-180-5522")
	res.resp.Candidates[0].GroundingMetadata = &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{URI: "http://a"}},
			{Web: &genai.GroundingChunkWeb{URI: "http://a"}},
			{},
			{Web: &genai.GroundingChunkWeb{URI: "http://b"}},
		},
	}
	c, fb := newClient(res)

	got := c.Search(context.Background(), "helpline")
	assert.Equal(t, "Helpline 1800-180-5522", got.Text)
	assert.Equal(t, []string{"http://a", "http://b"}, got.Links)
	require.Len(t, fb.calls[0].cfg.Tools, 1)
	assert.NotNil(t, fb.calls[0].cfg.Tools[0].GoogleSearch)
}

func TestSearch_Failure(t *testing.T) {
	c, _ := newClient(failure("down"))
	got := c.Search(context.Background(), "helpline")
	assert.Empty(t, got.Text)
	assert.NotNil(t, got.Links)
	assert.Empty(t, got.Links)
}

func TestSpeak(t *testing.T) {
	pcm := []byte{1, 0, 2, 0}
	res := result{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: genai.NewContentFromParts([]*genai.Part{genai.NewPartFromBytes(pcm, "audio/L16")}, genai.RoleModel),
	}}}}
	c, fb := newClient(res)

	payload, ok := c.Speak(context.Background(), "read me")
	require.True(t, ok)
	assert.Equal(t, base64.StdEncoding.EncodeToString(pcm), payload)
	cfg := fb.calls[0].cfg
	assert.Equal(t, []string{"AUDIO"}, cfg.ResponseModalities)
	assert.Equal(t, "Kore", cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)

	c, _ = newClient(text("no audio here"))
	_, ok = c.Speak(context.Background(), "read me")
	assert.False(t, ok)

	c, _ = newClient(failure("tts down"))
	_, ok = c.Speak(context.Background(), "read me")
	assert.False(t, ok)
}

func TestRetriesTransientFailures(t *testing.T) {
	fb := &fakeBackend{results: []result{failure("429"), text("Financial")}}
	opts := gateway.DefaultOptions()
	opts.MaxRetries = 2
	c := gateway.New(fb, opts, logger.Discard())

	assert.Equal(t, "Financial", c.Categorize(context.Background(), "they took my money"))
	assert.Len(t, fb.calls, 2)
}

func TestCanceledContextIsNotRetried(t *testing.T) {
	fb := &fakeBackend{results: []result{{err: context.Canceled}}}
	opts := gateway.DefaultOptions()
	opts.MaxRetries = 5
	c := gateway.New(fb, opts, logger.Discard())

	_, err := c.Transcribe(context.Background(), "AAAA", "audio/webm")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, fb.calls, 1)
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		calls int
	}{
		{"bad request", genai.APIError{Code: 400, Status: "INVALID_ARGUMENT"}, 1},
		{"bad key", genai.APIError{Code: 403, Status: "PERMISSION_DENIED"}, 1},
		{"unknown model", fmt.Errorf("wrapped: %w", genai.APIError{Code: 404, Status: "NOT_FOUND"}), 1},
		{"rate limited", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, 3},
		{"server error", genai.APIError{Code: 503, Status: "UNAVAILABLE"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{results: []result{{err: tt.err}}}
			opts := gateway.DefaultOptions()
			opts.MaxRetries = 2
			c := gateway.New(fb, opts, logger.Discard())

			_, err := c.Transcribe(context.Background(), "AAAA", "audio/webm")

			var apiErr genai.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Len(t, fb.calls, tt.calls)
		})
	}
}

func TestMockBackend(t *testing.T) {
	c := gateway.New(gateway.MockBackend{}, gateway.DefaultOptions(), logger.Discard())
	ctx := context.Background()

	assert.Equal(t, "Physical", c.Categorize(ctx, "A senior slapped me in the corridor"))
	assert.Equal(t, "Verbal", c.Categorize(ctx, "Test incident"))

	got := c.Search(ctx, "helpline")
	assert.Equal(t, []string{"https://www.antiragging.in", "https://www.ugc.gov.in"}, got.Links)

	payload, ok := c.Speak(ctx, "hello")
	require.True(t, ok)
	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	assert.Len(t, raw, 12000)

	tr, err := c.Transcribe(ctx, "AAAA", "audio/webm")
	require.NoError(t, err)
	assert.NotEmpty(t, tr)
}
