// Package controller binds user actions to the complaint store and the AI
// gateway. It is the only writer of the store and the only place where
// internal failures become user-visible notices.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"unmute-go/internal/audio"
	"unmute-go/internal/inflight"
	"unmute-go/internal/insights"
	"unmute-go/internal/logger"
	"unmute-go/internal/store"
	"unmute-go/internal/types"
)

var (
	ErrEmptyComplaint      = errors.New("complaint content is empty")
	ErrCaptureFailed       = errors.New("could not read audio capture")
	ErrTranscriptionFailed = errors.New("failed to process audio")
	ErrAnalysisInFlight    = errors.New("analysis already in progress")
	ErrEmptyQuery          = errors.New("search query is empty")
)

// Gateway is the AI capability surface the controller depends on.
type Gateway interface {
	Categorize(ctx context.Context, text string) string
	Transcribe(ctx context.Context, payload, mimeType string) (string, error)
	Analyze(ctx context.Context, text string) string
	Chat(ctx context.Context, history []types.ChatMessage, message string) string
	Search(ctx context.Context, query string) types.SearchResult
	Speak(ctx context.Context, text string) (string, bool)
}

// Speaker plays a base64 raw PCM payload; see audio.Player.
type Speaker interface {
	PlayBase64(ctx context.Context, payload string) bool
}

type Service struct {
	store  *store.Store
	ai     Gateway
	player Speaker
	log    *logger.Logger

	analyzing *inflight.Set
	tasks     sync.WaitGroup

	searchMu   sync.Mutex
	searching  bool
	lastQuery  string
	lastSearch *types.SearchResult

	chatMu sync.Mutex
	chats  map[string]*chatSession

	noticeMu sync.Mutex
	notices  []types.Notice

	now func() time.Time
}

func New(st *store.Store, ai Gateway, player Speaker, log *logger.Logger) *Service {
	return &Service{
		store:     st,
		ai:        ai,
		player:    player,
		log:       log.Component("controller"),
		analyzing: inflight.New(),
		chats:     make(map[string]*chatSession),
		now:       time.Now,
	}
}

// Wait blocks until background categorization tasks have settled.
func (s *Service) Wait() {
	s.tasks.Wait()
}

func (s *Service) Complaints(f types.Filter) []types.Complaint {
	return s.store.Filter(f)
}

func (s *Service) Complaint(id string) (types.Complaint, error) {
	c, ok := s.store.Get(id)
	if !ok {
		return types.Complaint{}, fmt.Errorf("complaint %s: %w", id, store.ErrNotFound)
	}
	return c, nil
}

// SubmitText stores a typed complaint and categorizes it in the background.
func (s *Service) SubmitText(ctx context.Context, content string) (types.Complaint, error) {
	if strings.TrimSpace(content) == "" {
		return types.Complaint{}, ErrEmptyComplaint
	}
	c := s.store.Create(content, false, "")
	s.log.WithField("complaint_id", c.ID).Info("complaint submitted")
	s.categorize(ctx, c)
	return c, nil
}

// SubmitAudio transcribes a recorded clip and stores the transcript as a
// complaint. Nothing is stored when capture or transcription fails.
func (s *Service) SubmitAudio(ctx context.Context, clip io.Reader, mimeType string) (types.Complaint, error) {
	payload, err := audio.EncodeClip(clip)
	if err != nil {
		s.log.WithError(err).Warn("audio capture unreadable")
		s.notify(types.NoticeCaptureFailed, "Could not access the recording. Please check microphone permissions and try again.")
		return types.Complaint{}, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}

	text, err := s.ai.Transcribe(context.WithoutCancel(ctx), payload, mimeType)
	if err != nil {
		s.log.WithError(err).Warn("transcription failed, complaint not created")
		s.notify(types.NoticeTranscriptionFailed, "Failed to process audio.")
		return types.Complaint{}, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	c := s.store.Create(text, true, text)
	s.log.WithField("complaint_id", c.ID).WithField("mime_type", mimeType).Info("audio complaint submitted")
	s.categorize(ctx, c)
	return c, nil
}

// categorize runs detached from the caller so a finished request does not
// cancel it. The result patches the record only if it is still present.
func (s *Service) categorize(ctx context.Context, c types.Complaint) {
	ctx = context.WithoutCancel(ctx)
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		category := s.ai.Categorize(ctx, c.Content)
		log := s.log.WithField("complaint_id", c.ID).WithField("category", category)
		if _, err := s.store.SetCategory(c.ID, category); err != nil {
			log.WithField("error", err.Error()).Warn("category update skipped")
			return
		}
		log.Info("complaint categorized")
	}()
}

func (s *Service) ToggleResolution(id string) (types.Complaint, error) {
	c, err := s.store.ToggleStatus(id)
	if err != nil {
		return types.Complaint{}, fmt.Errorf("complaint %s: %w", id, err)
	}
	s.log.WithField("complaint_id", id).WithField("status", c.Status).Info("complaint status changed")
	return c, nil
}

// RequestAnalysis runs deep analysis for one complaint. A second request for
// the same complaint is rejected while the first is outstanding.
func (s *Service) RequestAnalysis(ctx context.Context, id string) (types.Complaint, error) {
	c, err := s.Complaint(id)
	if err != nil {
		return types.Complaint{}, err
	}
	release, ok := s.analyzing.Acquire(id)
	if !ok {
		return c, ErrAnalysisInFlight
	}
	defer release()

	analysis := s.ai.Analyze(context.WithoutCancel(ctx), c.Content)
	updated, err := s.store.SetAnalysis(id, analysis)
	if err != nil {
		return types.Complaint{}, fmt.Errorf("complaint %s: %w", id, err)
	}
	return updated, nil
}

// Analyzing lists complaint ids with an outstanding analysis.
func (s *Service) Analyzing() []string {
	return s.analyzing.Keys()
}

// SearchState is the shared resource-search slot.
type SearchState struct {
	Searching bool                `json:"searching"`
	Query     string              `json:"query,omitempty"`
	Result    *types.SearchResult `json:"result,omitempty"`
}

// SearchResources runs a grounded search. Concurrent searches are not ordered:
// whichever finishes last owns the shared slot.
func (s *Service) SearchResources(ctx context.Context, query string) (types.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.SearchResult{}, ErrEmptyQuery
	}
	s.searchMu.Lock()
	s.searching = true
	s.searchMu.Unlock()

	res := s.ai.Search(context.WithoutCancel(ctx), query)

	s.searchMu.Lock()
	s.searching = false
	s.lastQuery = query
	s.lastSearch = &res
	s.searchMu.Unlock()
	return res, nil
}

func (s *Service) LastSearch() SearchState {
	s.searchMu.Lock()
	defer s.searchMu.Unlock()
	st := SearchState{Searching: s.searching, Query: s.lastQuery}
	if s.lastSearch != nil {
		res := *s.lastSearch
		st.Result = &res
	}
	return st
}

// ReadAloud synthesizes a complaint's content and plays it on the shared
// playback context. played is false when no audio was produced or playback
// failed; neither is an error.
func (s *Service) ReadAloud(ctx context.Context, id string) (played bool, err error) {
	c, err := s.Complaint(id)
	if err != nil {
		return false, err
	}
	ctx = context.WithoutCancel(ctx)
	payload, ok := s.ai.Speak(ctx, c.Content)
	if !ok {
		return false, nil
	}
	return s.player.PlayBase64(ctx, payload), nil
}

func (s *Service) Insights() (insights.Insight, insights.ActionCard) {
	ins := insights.Aggregate(s.store.List())
	return ins, insights.Generate(ins)
}

func (s *Service) notify(kind types.NoticeKind, msg string) {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	s.notices = append(s.notices, types.Notice{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: msg,
		At:      s.now(),
	})
}

// Notices returns recorded failure notices, oldest first.
func (s *Service) Notices() []types.Notice {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	return append([]types.Notice(nil), s.notices...)
}
