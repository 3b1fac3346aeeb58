package matching

import (
	"context"

	"github.com/myiephero/matchengine/models"
)

// Caller is the authenticated identity a request runs as, resolved by the
// external auth collaborator before the engine is ever reached.
type Caller struct {
	ID   string
	Role string
}

// Caller roles.
const (
	RoleParent   = "parent"
	RoleAdvocate = "advocate"
	RoleAdmin    = "admin"
)

// TransitionData is one atomic proposal state change: a compare-and-swap on
// the status (guarded by Proposal.Version) plus the event row for the audit
// log, and optionally the companion intro call or assignment rows. Stores
// must apply all of it in a single transaction and report a version mismatch
// as ErrConflict without writing anything.
type TransitionData struct {
	Proposal      *models.MatchProposal
	Status        string
	DeclineReason string
	IntroCall     *models.IntroCall  // set for intro transitions
	Assignment    *models.Assignment // set for accept; pair conflict is ignored
	Event         *models.MatchEvent
}

// ProposalStore owns the match_proposals, match_events, intro_calls and
// assignments tables. No other component writes them.
type ProposalStore interface {
	// Create persists a new proposal together with its proposal_created
	// event in one transaction.
	Create(ctx context.Context, proposal *models.MatchProposal, event *models.MatchEvent) error
	Get(ctx context.Context, id string) (*models.MatchProposal, error)
	ListVisibleTo(ctx context.Context, caller Caller) ([]models.MatchProposal, error)
	// HasActivePair reports whether a non-terminal proposal already exists
	// for the student/advocate pair.
	HasActivePair(ctx context.Context, studentID, advocateID string) (bool, error)
	Transition(ctx context.Context, data TransitionData) error
	ListEvents(ctx context.Context, proposalID string) ([]models.MatchEvent, error)
}

// StudentDirectory reads externally-owned student records. UpdateNeeds is the
// single write the engine performs there: merging extracted tags.
type StudentDirectory interface {
	Get(ctx context.Context, id string) (*models.Student, error)
	UpdateNeeds(ctx context.Context, id string, needs []string) error
}

// AdvocateDirectory reads externally-owned advocate profiles.
type AdvocateDirectory interface {
	Get(ctx context.Context, id string) (*models.AdvocateProfile, error)
}

// Notifier records a notification for later delivery. Implementations are
// fire-and-forget: failures are logged, never returned, and never roll back
// the transition that triggered them.
type Notifier interface {
	Send(ctx context.Context, userID, title, message, proposalID string)
}
