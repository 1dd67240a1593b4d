package gateway

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"unmute-go/internal/audio"
	"unmute-go/internal/types"
)

const (
	analysisUnavailable = "Analysis unavailable."
	analysisFailed      = "Error generating analysis."
	chatFallback        = "I'm having trouble connecting right now. Please try again later."
	uncategorized       = "Uncategorized"
	defaultClipMIMEType = "audio/webm"
)

// Categorize returns a one-word label, or types.CategoryFallback on failure.
func (c *Client) Categorize(ctx context.Context, text string) string {
	resp, err := c.generate(ctx, "categorize", c.opts.Models.Categorize, genai.Text(categorizePrompt(text)), nil)
	if err != nil {
		c.log.WithError(err).Error("categorization failed")
		return types.CategoryFallback
	}
	if cat := normalizeCategory(resp.Text()); cat != "" {
		return cat
	}
	return uncategorized
}

// Transcribe is the only capability that reports failure: a lost transcript
// means the complaint content is unknown.
func (c *Client) Transcribe(ctx context.Context, payload, mimeType string) (string, error) {
	raw, err := audio.DecodeBase64(payload)
	if err != nil {
		return "", fmt.Errorf("transcription payload: %w", err)
	}
	if mimeType == "" {
		mimeType = defaultClipMIMEType
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(raw, mimeType),
			genai.NewPartFromText(transcribeInstruction),
		}, genai.RoleUser),
	}
	resp, err := c.generate(ctx, "transcribe", c.opts.Models.Transcribe, contents, nil)
	if err != nil {
		c.log.WithError(err).Error("transcription failed")
		return "", err
	}
	return resp.Text(), nil
}

// Analyze produces the severity/violation/action narrative for a complaint.
func (c *Client) Analyze(ctx context.Context, text string) string {
	cfg := &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(c.opts.ThinkingBudget)},
	}
	resp, err := c.generate(ctx, "analyze", c.opts.Models.Analyze, genai.Text(analyzePrompt(text)), cfg)
	if err != nil {
		c.log.WithError(err).Error("deep analysis failed")
		return analysisFailed
	}
	if out := resp.Text(); out != "" {
		return out
	}
	return analysisUnavailable
}

// Chat sends the prior history plus the new message and returns the reply.
func (c *Client) Chat(ctx context.Context, history []types.ChatMessage, message string) string {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == types.ChatRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatSystemInstruction, genai.RoleUser),
	}
	resp, err := c.generate(ctx, "chat", c.opts.Models.Chat, contents, cfg)
	if err != nil {
		c.log.WithError(err).Error("chat error")
		return chatFallback
	}
	if out := resp.Text(); out != "" {
		return out
	}
	return chatFallback
}

// Search asks a search-grounded question and collects the cited web links,
// de-duplicated in first-seen order.
func (c *Client) Search(ctx context.Context, query string) types.SearchResult {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	resp, err := c.generate(ctx, "search", c.opts.Models.Search, genai.Text(searchPrompt(query)), cfg)
	if err != nil {
		c.log.WithError(err).Error("search grounding failed")
		return types.SearchResult{Links: []string{}}
	}

	var links []string
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk != nil && chunk.Web != nil {
				links = append(links, strings.TrimSpace(chunk.Web.URI))
			}
		}
	}
	return types.SearchResult{Text: resp.Text(), Links: dedupe(links)}
}

// Speak synthesizes speech. ok is false when no audio came back.
func (c *Client) Speak(ctx context.Context, text string) (payload string, ok bool) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.opts.Voice},
			},
		},
	}
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	resp, err := c.generate(ctx, "speech", c.opts.Models.Speech, contents, cfg)
	if err != nil {
		c.log.WithError(err).Error("TTS failed")
		return "", false
	}
	if len(resp.Candidates) == 0 {
		return "", false
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", false
	}
	part := cand.Content.Parts[0]
	if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
		return "", false
	}
	return audio.EncodeBytes(part.InlineData.Data), true
}
