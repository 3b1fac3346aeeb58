package matching

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/myiephero/matchengine/metrics"
	"github.com/myiephero/matchengine/models"
	"github.com/myiephero/matchengine/tagging"
)

// Engine owns the proposal lifecycle: creation, intro scheduling, acceptance
// and decline. Every transition appends exactly one event and triggers a
// best-effort notification. All collaborators are narrow contracts so the
// engine itself is request-scoped and stateless.
type Engine struct {
	store     ProposalStore
	students  StudentDirectory
	advocates AdvocateDirectory
	scorer    *Scorer
	tags      tagging.Provider
	notifier  Notifier
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewEngine(
	store ProposalStore,
	students StudentDirectory,
	advocates AdvocateDirectory,
	scorer *Scorer,
	tags tagging.Provider,
	notifier Notifier,
	m *metrics.Metrics,
	log *zap.Logger,
) *Engine {
	return &Engine{
		store:     store,
		students:  students,
		advocates: advocates,
		scorer:    scorer,
		tags:      tags,
		notifier:  notifier,
		metrics:   m,
		log:       log,
	}
}

type ProposeRequest struct {
	StudentID   string
	AdvocateIDs []string
	Reason      Reason
}

type ProposeResult struct {
	Created       int
	Proposals     []models.MatchProposal
	ExtractedTags []string
}

// Propose scores the student against each candidate advocate and persists one
// proposal per advocate that survives the checks. Unknown advocates, already
// active pairs and per-advocate persistence failures are skipped individually;
// partial success is reported through Created, which callers must compare
// against the number of advocates they asked for.
func (e *Engine) Propose(ctx context.Context, actor Caller, req ProposeRequest) (*ProposeResult, error) {
	if req.StudentID == "" || len(req.AdvocateIDs) == 0 {
		return nil, fmt.Errorf("%w: student_id and advocate_ids are required", ErrValidation)
	}

	student, err := e.students.Get(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("load student %s: %w", req.StudentID, err)
	}

	extracted := e.enrichNeeds(ctx, student)

	res := &ProposeResult{
		Proposals:     []models.MatchProposal{},
		ExtractedTags: extracted,
	}

	for _, advocateID := range req.AdvocateIDs {
		advocate, err := e.advocates.Get(ctx, advocateID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				e.log.Debug("skipping unknown advocate", zap.String("advocate_id", advocateID))
			} else {
				e.log.Warn("skipping advocate: lookup failed",
					zap.String("advocate_id", advocateID), zap.Error(err))
			}
			continue
		}

		active, err := e.store.HasActivePair(ctx, student.ID, advocate.ID)
		if err != nil {
			e.log.Warn("skipping advocate: active pair check failed",
				zap.String("advocate_id", advocateID), zap.Error(err))
			continue
		}
		if active {
			e.log.Debug("skipping advocate: active proposal already exists",
				zap.String("student_id", student.ID),
				zap.String("advocate_id", advocateID))
			continue
		}

		scored, err := e.scorer.Score(ctx, student, advocate)
		if err != nil {
			e.log.Warn("skipping advocate: scoring failed",
				zap.String("advocate_id", advocateID), zap.Error(err))
			continue
		}

		proposal := &models.MatchProposal{
			ID:         uuid.NewString(),
			StudentID:  student.ID,
			AdvocateID: advocate.ID,
			ParentID:   student.ParentID,
			Score:      math.Round(scored.Score*100) / 100,
			Status:     models.StatusProposed,
			Reason:     datatypes.JSONMap(req.Reason.toMap(scored.Breakdown, extracted)),
			CreatedBy:  actor.ID,
		}
		event := &models.MatchEvent{
			ID:         uuid.NewString(),
			ProposalID: proposal.ID,
			EventType:  models.EventProposalCreated,
			ActorID:    actor.ID,
			Details: datatypes.JSONMap{
				"score":          proposal.Score,
				"extracted_tags": extracted,
			},
		}

		if err := e.store.Create(ctx, proposal, event); err != nil {
			e.log.Error("skipping advocate: proposal insert failed",
				zap.String("advocate_id", advocateID), zap.Error(err))
			continue
		}

		e.notifier.Send(ctx, advocate.ID,
			"New Matching Opportunity",
			fmt.Sprintf("You have a new student match proposal for %s (Grade %s)", student.Name, student.Grade),
			proposal.ID)

		e.metrics.ProposalCreated()
		e.metrics.Transition(models.EventProposalCreated)

		res.Proposals = append(res.Proposals, *proposal)
		res.Created++
	}

	e.log.Info("proposals created",
		zap.String("student_id", student.ID),
		zap.Int("requested", len(req.AdvocateIDs)),
		zap.Int("created", res.Created),
	)

	return res, nil
}

// enrichNeeds runs best-effort tag extraction over the student narrative and
// merges the result into the student's needs, persisting the merge when it
// adds anything. Every failure degrades to the empty set.
func (e *Engine) enrichNeeds(ctx context.Context, student *models.Student) []string {
	if strings.TrimSpace(student.Narrative) == "" {
		return nil
	}

	extracted, err := e.tags.ExtractTags(ctx, student.Narrative)
	if err != nil {
		e.metrics.TagExtraction(metrics.TagOutcomeFailed)
		e.log.Warn("tag extraction failed, continuing without tags",
			zap.String("student_id", student.ID), zap.Error(err))
		return nil
	}
	if len(extracted) == 0 {
		e.metrics.TagExtraction(metrics.TagOutcomeEmpty)
		return nil
	}
	e.metrics.TagExtraction(metrics.TagOutcomeOK)

	merged := union(student.Needs, extracted)
	if len(merged) != len(student.Needs) {
		if err := e.students.UpdateNeeds(ctx, student.ID, merged); err != nil {
			e.log.Warn("failed to persist merged needs",
				zap.String("student_id", student.ID), zap.Error(err))
		}
	}
	// Score against the enriched set regardless of whether the merge stuck.
	student.Needs = merged

	return extracted
}

type IntroRequest struct {
	WhenTS  *time.Time
	Channel string
	Link    string
	Notes   string
}

type IntroResult struct {
	IntroCall models.IntroCall
	Status    string
}

// RequestIntro moves a proposal to scheduled when a concrete time is given,
// otherwise to intro_requested. Each call creates a fresh intro call record.
// The party that did not initiate the call gets notified.
func (e *Engine) RequestIntro(ctx context.Context, actor Caller, proposalID string, req IntroRequest) (*IntroResult, error) {
	proposal, err := e.store.Get(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("load proposal %s: %w", proposalID, err)
	}
	if proposal.Terminal() {
		return nil, fmt.Errorf("%w: proposal is already %s", ErrConflict, proposal.Status)
	}

	channel := strings.TrimSpace(req.Channel)
	if channel == "" {
		channel = "zoom"
	}

	call := &models.IntroCall{
		ID:          uuid.NewString(),
		ProposalID:  proposal.ID,
		ScheduledAt: req.WhenTS,
		Channel:     channel,
		MeetingLink: req.Link,
		Notes:       req.Notes,
		CreatedBy:   actor.ID,
	}

	status := models.StatusIntroRequested
	eventType := models.EventIntroRequested
	if req.WhenTS != nil {
		status = models.StatusScheduled
		eventType = models.EventIntroScheduled
	}

	details := datatypes.JSONMap{
		"intro_call_id": call.ID,
		"channel":       channel,
	}
	if req.WhenTS != nil {
		details["when_ts"] = req.WhenTS.UTC().Format(time.RFC3339)
	}
	if req.Link != "" {
		details["link"] = req.Link
	}

	err = e.store.Transition(ctx, TransitionData{
		Proposal:  proposal,
		Status:    status,
		IntroCall: call,
		Event: &models.MatchEvent{
			ID:         uuid.NewString(),
			ProposalID: proposal.ID,
			EventType:  eventType,
			ActorID:    actor.ID,
			Details:    details,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("transition proposal %s to %s: %w", proposal.ID, status, err)
	}

	title := "Intro Call Requested"
	message := "An intro call has been requested for this match"
	if req.WhenTS != nil {
		title = "Intro Call Scheduled"
		message = fmt.Sprintf("An intro call has been scheduled for %s", req.WhenTS.Format("Jan 2, 2006"))
	}
	e.notifier.Send(ctx, e.counterparty(proposal, actor), title, message, proposal.ID)
	e.metrics.Transition(eventType)

	return &IntroResult{IntroCall: *call, Status: status}, nil
}

// Accept finalizes a proposal and idempotently records the advocate-parent
// assignment: the advocate now serves this family, independently of any
// single proposal.
func (e *Engine) Accept(ctx context.Context, actor Caller, proposalID string) (string, error) {
	proposal, err := e.store.Get(ctx, proposalID)
	if err != nil {
		return "", fmt.Errorf("load proposal %s: %w", proposalID, err)
	}
	if proposal.Terminal() {
		return "", fmt.Errorf("%w: proposal is already %s", ErrConflict, proposal.Status)
	}

	err = e.store.Transition(ctx, TransitionData{
		Proposal: proposal,
		Status:   models.StatusAccepted,
		Assignment: &models.Assignment{
			ID:         uuid.NewString(),
			AdvocateID: proposal.AdvocateID,
			ParentID:   proposal.ParentID,
		},
		Event: &models.MatchEvent{
			ID:         uuid.NewString(),
			ProposalID: proposal.ID,
			EventType:  models.EventProposalAccepted,
			ActorID:    actor.ID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("accept proposal %s: %w", proposal.ID, err)
	}

	e.notifier.Send(ctx, proposal.ParentID,
		"Match Proposal Accepted!",
		fmt.Sprintf("Your advocate match proposal for %s has been accepted!", e.studentName(ctx, proposal.StudentID)),
		proposal.ID)
	e.metrics.Transition(models.EventProposalAccepted)

	return models.StatusAccepted, nil
}

// Decline finalizes a proposal without creating an assignment. The optional
// reason is stored on the proposal for the family's records.
func (e *Engine) Decline(ctx context.Context, actor Caller, proposalID, reason string) (string, error) {
	proposal, err := e.store.Get(ctx, proposalID)
	if err != nil {
		return "", fmt.Errorf("load proposal %s: %w", proposalID, err)
	}
	if proposal.Terminal() {
		return "", fmt.Errorf("%w: proposal is already %s", ErrConflict, proposal.Status)
	}

	err = e.store.Transition(ctx, TransitionData{
		Proposal:      proposal,
		Status:        models.StatusDeclined,
		DeclineReason: strings.TrimSpace(reason),
		Event: &models.MatchEvent{
			ID:         uuid.NewString(),
			ProposalID: proposal.ID,
			EventType:  models.EventProposalDeclined,
			ActorID:    actor.ID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("decline proposal %s: %w", proposal.ID, err)
	}

	e.notifier.Send(ctx, proposal.ParentID,
		"Match Proposal Declined",
		fmt.Sprintf("Your advocate match proposal for %s was declined", e.studentName(ctx, proposal.StudentID)),
		proposal.ID)
	e.metrics.Transition(models.EventProposalDeclined)

	return models.StatusDeclined, nil
}

// List returns the proposals visible to the caller, newest first, joined with
// student/advocate/creator summaries.
func (e *Engine) List(ctx context.Context, actor Caller) ([]models.MatchProposal, error) {
	return e.store.ListVisibleTo(ctx, actor)
}

// Events returns the audit trail for a proposal, newest first.
func (e *Engine) Events(ctx context.Context, proposalID string) ([]models.MatchEvent, error) {
	if _, err := e.store.Get(ctx, proposalID); err != nil {
		return nil, fmt.Errorf("load proposal %s: %w", proposalID, err)
	}
	return e.store.ListEvents(ctx, proposalID)
}

// counterparty picks whoever did not initiate the action: the parent when the
// advocate acted, the advocate otherwise.
func (e *Engine) counterparty(p *models.MatchProposal, actor Caller) string {
	if actor.ID == p.AdvocateID {
		return p.ParentID
	}
	return p.AdvocateID
}

func (e *Engine) studentName(ctx context.Context, studentID string) string {
	student, err := e.students.Get(ctx, studentID)
	if err != nil {
		return "your student"
	}
	return student.Name
}

// union merges b into a preserving order and dropping duplicates.
func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, v := range a {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range b {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
