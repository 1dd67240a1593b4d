package store_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unmute-go/internal/store"
	"unmute-go/internal/types"
)

func newStore() *store.Store {
	n := 0
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return store.New(
		store.WithIDs(func() string { n++; return fmt.Sprintf("c%d", n) }),
		store.WithClock(func() time.Time { clock = clock.Add(time.Minute); return clock }),
	)
}

func TestCreate_Defaults(t *testing.T) {
	s := newStore()

	c := s.Create("Test incident", false, "ignored for text")

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "Test incident", c.Content)
	assert.Equal(t, types.StatusPending, c.Status)
	assert.Equal(t, types.CategoryPlaceholder, c.Category)
	assert.False(t, c.IsAudio)
	assert.Empty(t, c.Transcription)
	assert.Empty(t, c.AIAnalysis)
	assert.Equal(t, 1, s.Len())
}

func TestCreate_AudioKeepsTranscription(t *testing.T) {
	s := newStore()
	c := s.Create("spoken words", true, "spoken words")
	assert.True(t, c.IsAudio)
	assert.Equal(t, "spoken words", c.Transcription)
}

func TestCreate_NewestFirst(t *testing.T) {
	s := newStore()
	s.Seed(types.Complaint{ID: "seed", Content: "old", Status: types.StatusResolved, Category: "Exclusion"})
	s.Create("first", false, "")
	s.Create("second", false, "")

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c2", "c1", "seed"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestToggleStatus_Involution(t *testing.T) {
	s := newStore()
	c := s.Create("x", false, "")

	got, err := s.ToggleStatus(c.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusResolved, got.Status)

	got, err = s.ToggleStatus(c.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, got.Status)

	_, err = s.ToggleStatus("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetCategory_OnlyOnce(t *testing.T) {
	s := newStore()
	c := s.Create("Test incident", false, "")

	got, err := s.SetCategory(c.ID, "Verbal")
	require.NoError(t, err)
	assert.Equal(t, "Verbal", got.Category)

	got, err = s.SetCategory(c.ID, "Physical")
	assert.ErrorIs(t, err, store.ErrCategorySet)
	assert.Equal(t, "Verbal", got.Category)

	_, err = s.SetCategory("missing", "Verbal")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetAnalysis_Overwrites(t *testing.T) {
	s := newStore()
	c := s.Create("x", false, "")
	_, err := s.SetCategory(c.ID, "Cyber")
	require.NoError(t, err)

	_, err = s.SetAnalysis(c.ID, "first")
	require.NoError(t, err)
	got, err := s.SetAnalysis(c.ID, "second")
	require.NoError(t, err)

	assert.Equal(t, "second", got.AIAnalysis)
	assert.Equal(t, "Cyber", got.Category, "analysis must not touch category")
}

func TestFilter(t *testing.T) {
	s := newStore()
	a := s.Create("a", false, "")
	s.Create("b", false, "")
	c := s.Create("c", false, "")
	_, _ = s.ToggleStatus(a.ID)
	_, _ = s.ToggleStatus(c.ID)

	ids := func(cs []types.Complaint) []string {
		out := []string{}
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}
	assert.Equal(t, []string{"c3", "c2", "c1"}, ids(s.Filter(types.FilterAll)))
	assert.Equal(t, []string{"c2"}, ids(s.Filter(types.FilterPending)))
	assert.Equal(t, []string{"c3", "c1"}, ids(s.Filter(types.FilterResolved)))
}

func TestReadersGetCopies(t *testing.T) {
	s := newStore()
	c := s.Create("original", false, "")

	list := s.List()
	list[0].Content = "tampered"

	got, ok := s.Get(c.ID)
	require.True(t, ok)
	assert.Equal(t, "original", got.Content)
}

func TestSeed_SkipsDuplicatesAndFillsDefaults(t *testing.T) {
	s := newStore()
	added := s.Seed(
		types.Complaint{ID: "x", Content: "one"},
		types.Complaint{ID: "x", Content: "dup"},
		types.Complaint{Content: "no id"},
	)
	assert.Equal(t, 2, added)

	got, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, types.StatusPending, got.Status)
	assert.Equal(t, types.CategoryFallback, got.Category)
}

func TestSeed_SettlesPlaceholderCategory(t *testing.T) {
	s := newStore()
	s.Seed(types.Complaint{ID: "mid-flight", Content: "exported before categorizing", Category: types.CategoryPlaceholder})

	got, ok := s.Get("mid-flight")
	require.True(t, ok)
	assert.Equal(t, types.CategoryFallback, got.Category)

	_, err := s.SetCategory("mid-flight", "Verbal")
	assert.ErrorIs(t, err, store.ErrCategorySet)
}
