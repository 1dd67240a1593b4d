package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusResolved Status = "RESOLVED"
)

// Toggle flips PENDING <-> RESOLVED.
func (s Status) Toggle() Status {
	if s == StatusResolved {
		return StatusPending
	}
	return StatusResolved
}

const (
	// CategoryPlaceholder marks a complaint whose categorization has not settled yet.
	CategoryPlaceholder = "Processing..."
	// CategoryFallback is used when the categorize call fails.
	CategoryFallback = "General"
)

type Complaint struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	Timestamp     time.Time `json:"timestamp"`
	Status        Status    `json:"status"`
	Category      string    `json:"category"`
	IsAudio       bool      `json:"is_audio"`
	Transcription string    `json:"transcription,omitempty"`
	AIAnalysis    string    `json:"ai_analysis,omitempty"`
}

type Filter string

const (
	FilterAll      Filter = "ALL"
	FilterPending  Filter = "PENDING"
	FilterResolved Filter = "RESOLVED"
)

// ParseFilter accepts ALL, PENDING or RESOLVED (case-insensitive); empty means ALL.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToUpper(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterResolved:
		return FilterResolved, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

func (f Filter) Match(c Complaint) bool {
	if f == FilterAll || f == "" {
		return true
	}
	return string(c.Status) == string(f)
}

type Role string

const (
	RoleHostelWarden   Role = "Hostel Warden"
	RoleFacultyMember  Role = "Faculty Member"
	RoleCommittee      Role = "Anti-Ragging Committee"
	RoleStudentCouncil Role = "Student Council"
)

var Roles = []Role{RoleHostelWarden, RoleFacultyMember, RoleCommittee, RoleStudentCouncil}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

var ErrInvalidProfile = errors.New("invalid admin profile")

// AdminProfile is supplied once at login and lives only as long as the session.
type AdminProfile struct {
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}

func (p AdminProfile) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	case strings.TrimSpace(p.Department) == "":
		return fmt.Errorf("%w: department is required", ErrInvalidProfile)
	case !p.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", ErrInvalidProfile, p.Role)
	}
	return nil
}

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	ID   string   `json:"id"`
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

type SearchResult struct {
	Text  string   `json:"text"`
	Links []string `json:"links"`
}

type NoticeKind string

const (
	NoticeTranscriptionFailed NoticeKind = "transcription_failed"
	NoticeCaptureFailed       NoticeKind = "capture_failed"
)

// Notice is a user-visible failure message recorded by the controller.
type Notice struct {
	ID      string     `json:"id"`
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}
