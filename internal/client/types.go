package client

import "time"

// Agent is an AI agent whose memories the service manages.
type Agent struct {
	ID          string    `json:"agent_id"`
	Name        string    `json:"agent_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MemoryBlock is one stored memory: distilled lessons plus retrieval and
// feedback metadata the dashboard filters on.
type MemoryBlock struct {
	ID             string     `json:"id"`
	AgentID        string     `json:"agent_id"`
	ConversationID string     `json:"conversation_id"`
	Content        string     `json:"content"`
	Lessons        string     `json:"lessons_learned"`
	Keywords       []Keyword  `json:"keywords"`
	FeedbackScore  int        `json:"feedback_score"`
	RetrievalCount int        `json:"retrieval_count"`
	TokenCount     int        `json:"token_count"`
	Archived       bool       `json:"archived"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Keyword is a tag attachable to memory blocks.
type Keyword struct {
	ID        string    `json:"keyword_id"`
	Text      string    `json:"keyword_text"`
	CreatedAt time.Time `json:"created_at"`
}

// KeywordSuggestion proposes keywords for one memory block; the bulk
// apply flow turns selected suggestions into KeywordApplications.
type KeywordSuggestion struct {
	MemoryBlockID string   `json:"memory_block_id"`
	Suggested     []string `json:"suggested_keywords"`
	Current       []string `json:"current_keywords"`
}

// KeywordApplication is one unit of bulk work: attach the given keywords
// to one memory block. Immutable once enqueued.
type KeywordApplication struct {
	MemoryBlockID string   `json:"memory_block_id"`
	KeywordIDs    []string `json:"keyword_ids"`
}

// BulkApplyError describes one application the service rejected.
type BulkApplyError struct {
	MemoryBlockID string `json:"memory_block_id"`
	Detail        string `json:"detail"`
}

// BulkApplyResult is the service's outcome for one submitted batch.
type BulkApplyResult struct {
	SuccessfulCount int              `json:"successful_count"`
	FailedCount     int              `json:"failed_count"`
	Errors          []BulkApplyError `json:"errors,omitempty"`
}

// ConsolidationStatus is the review state of a consolidation suggestion.
type ConsolidationStatus string

// Consolidation suggestion statuses.
const (
	ConsolidationPending   ConsolidationStatus = "pending"
	ConsolidationValidated ConsolidationStatus = "validated"
	ConsolidationRejected  ConsolidationStatus = "rejected"
)

// ConsolidationSuggestion proposes merging several overlapping memory
// blocks into one suggested block.
type ConsolidationSuggestion struct {
	ID               string              `json:"suggestion_id"`
	GroupID          string              `json:"group_id"`
	AgentID          string              `json:"agent_id"`
	SuggestedContent string              `json:"suggested_content"`
	OriginalBlockIDs []string            `json:"original_memory_ids"`
	Status           ConsolidationStatus `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
}

// PruningSuggestion marks a low-value memory block as a pruning candidate.
type PruningSuggestion struct {
	MemoryBlockID  string  `json:"memory_block_id"`
	Score          float64 `json:"pruning_score"`
	Rationale      string  `json:"rationale"`
	FeedbackScore  int     `json:"feedback_score"`
	RetrievalCount int     `json:"retrieval_count"`
}

// Conversation is one agent conversation; the CLI groups these per agent
// for derived statistics.
type Conversation struct {
	ID        string    `json:"conversation_id"`
	AgentID   string    `json:"agent_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is a user-facing event raised by the service.
type Notification struct {
	ID        string     `json:"id"`
	EventType string     `json:"event_type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Read      bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Organization groups agents, memories, and members.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberRole is an organization member's permission level.
type MemberRole string

// Organization member roles, most to least privileged.
const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleEditor MemberRole = "editor"
	RoleViewer MemberRole = "viewer"
)

// ValidRole reports whether role is one of the defined member roles.
func ValidRole(role MemberRole) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleEditor, RoleViewer:
		return true
	default:
		return false
	}
}

// Member is one user's membership in an organization.
type Member struct {
	UserID      string     `json:"user_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        MemberRole `json:"role"`
	JoinedAt    time.Time  `json:"created_at"`
}

// Token is a personal API token. Secret is only populated by CreateToken;
// the service never returns it again.
type Token struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Scopes     []string   `json:"scopes"`
	Prefix     string     `json:"token_prefix"`
	Secret     string     `json:"token,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// BuildInfo reports the service's version for compatibility checks.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// Page is the service's paginated list envelope.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"total_items"`
}
