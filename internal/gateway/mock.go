package gateway

import (
	"context"
	"encoding/binary"
	"math"
	"strings"

	"google.golang.org/genai"
)

// MockBackend answers every capability deterministically without network
// access. Enabled with USE_MOCK_LLM=true for offline demos.
type MockBackend struct{}

var mockCategoryKeywords = []struct {
	category string
	words    []string
}{
	{"Physical", []string{"hit", "slap", "push", "beat", "punch", "kick"}},
	{"Cyber", []string{"online", "whatsapp", "instagram", "photo", "video", "message"}},
	{"Financial", []string{"money", "pay", "cash", "fee", "loan"}},
	{"Exclusion", []string{"ignore", "exclude", "isolate", "assignment", "boycott"}},
}

func (MockBackend) GenerateContent(_ context.Context, _ string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	switch {
	case cfg != nil && len(cfg.ResponseModalities) > 0:
		return mockAudio(), nil
	case cfg != nil && len(cfg.Tools) > 0:
		return mockSearch(), nil
	case cfg != nil && cfg.ThinkingConfig != nil:
		return mockText("Severity: Moderate. Potential violation of UGC anti-ragging regulations (2009). " +
			"Immediate action: record statements, inform the hostel warden and schedule a committee hearing within 24 hours."), nil
	case cfg != nil && cfg.SystemInstruction != nil:
		return mockText("You are not alone. You can report anonymously here, and the National Anti-Ragging Helpline (1800-180-5522) is available 24x7."), nil
	case hasInlineData(contents):
		return mockText("Seniors stopped me near the mess and forced me to sing in front of everyone."), nil
	}
	return mockText(mockCategory(lastText(contents))), nil
}

func mockCategory(prompt string) string {
	// only look at the quoted complaint, not the instruction around it
	if i, j := strings.Index(prompt, `"`), strings.LastIndex(prompt, `"`); i >= 0 && j > i {
		prompt = prompt[i+1 : j]
	}
	lower := strings.ToLower(prompt)
	for _, k := range mockCategoryKeywords {
		for _, w := range k.words {
			if strings.Contains(lower, w) {
				return k.category
			}
		}
	}
	return "Verbal"
}

func mockText(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(s, genai.RoleModel),
		}},
	}
}

func mockSearch() *genai.GenerateContentResponse {
	resp := mockText("National Anti-Ragging Helpline: 1800-180-5522. UGC Regulations on Curbing the Menace of Ragging, 2009.")
	resp.Candidates[0].GroundingMetadata = &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{URI: "https://www.antiragging.in", Title: "Anti-Ragging"}},
			{Web: &genai.GroundingChunkWeb{URI: "https://www.ugc.gov.in", Title: "UGC"}},
			{Web: &genai.GroundingChunkWeb{URI: "https://www.antiragging.in", Title: "Anti-Ragging"}},
		},
	}
	return resp
}

// mockAudio is a quarter second 440Hz tone as 24kHz 16-bit PCM.
func mockAudio() *genai.GenerateContentResponse {
	const n = 6000
	pcm := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		v := int16(0.2 * math.MaxInt16 * math.Sin(2*math.Pi*440*float64(i)/24000))
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(v))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromParts([]*genai.Part{
				genai.NewPartFromBytes(pcm, "audio/L16;codec=pcm;rate=24000"),
			}, genai.RoleModel),
		}},
	}
}

func hasInlineData(contents []*genai.Content) bool {
	for _, c := range contents {
		if c == nil {
			continue
		}
		for _, p := range c.Parts {
			if p != nil && p.InlineData != nil {
				return true
			}
		}
	}
	return false
}

func lastText(contents []*genai.Content) string {
	for i := len(contents) - 1; i >= 0; i-- {
		if contents[i] == nil {
			continue
		}
		for _, p := range contents[i].Parts {
			if p != nil && p.Text != "" {
				return p.Text
			}
		}
	}
	return ""
}
