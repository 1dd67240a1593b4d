package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unmute-go/internal/types"
)

var warden = types.AdminProfile{Name: "Dr. A. Sharma", Role: types.RoleHostelWarden, Department: "Block B"}

func TestIssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(warden)
	require.NoError(t, err)

	got, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, warden, got)
}

func TestIssue_RejectsIncompleteProfile(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Issue(types.AdminProfile{Name: "x", Role: types.RoleCommittee})
	assert.ErrorIs(t, err, types.ErrInvalidProfile)

	_, err = m.Issue(types.AdminProfile{Name: "x", Role: "Principal", Department: "Admin"})
	assert.ErrorIs(t, err, types.ErrInvalidProfile)
}

func TestParse_RejectsForeignAndExpiredTokens(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	other := NewManager("other-secret", time.Hour)

	token, err := other.Issue(warden)
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err = m.Issue(warden)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevoke(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, err := m.Issue(warden)
	require.NoError(t, err)
	keep, err := m.Issue(warden)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(token))

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrRevoked)
	_, err = m.Parse(keep)
	assert.NoError(t, err)
}
