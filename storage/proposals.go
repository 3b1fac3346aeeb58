// Package storage implements the matching engine's persistence contracts on
// GORM/Postgres.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/myiephero/matchengine/matching"
	"github.com/myiephero/matchengine/models"
)

// ProposalStore owns all writes to match_proposals, match_events,
// intro_calls and assignments.
type ProposalStore struct {
	db *gorm.DB
}

func NewProposalStore(db *gorm.DB) *ProposalStore {
	return &ProposalStore{db: db}
}

func (s *ProposalStore) Create(ctx context.Context, proposal *models.MatchProposal, event *models.MatchEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(proposal).Error; err != nil {
			return fmt.Errorf("insert proposal: %w", err)
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		return nil
	})
}

func (s *ProposalStore) Get(ctx context.Context, id string) (*models.MatchProposal, error) {
	var p models.MatchProposal
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("proposal %s: %w", id, matching.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (s *ProposalStore) ListVisibleTo(ctx context.Context, caller matching.Caller) ([]models.MatchProposal, error) {
	q := s.db.WithContext(ctx).
		Model(&models.MatchProposal{}).
		Preload("Student").
		Preload("Advocate").
		Preload("Creator").
		Order("created_at DESC")

	switch caller.Role {
	case matching.RoleAdmin:
		// sees everything
	case matching.RoleAdvocate:
		q = q.Where("advocate_id = ?", caller.ID)
	case matching.RoleParent:
		q = q.Where("parent_id = ?", caller.ID)
	default:
		q = q.Where("parent_id = ? OR advocate_id = ?", caller.ID, caller.ID)
	}

	var rows []models.MatchProposal
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ProposalStore) HasActivePair(ctx context.Context, studentID, advocateID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.MatchProposal{}).
		Where("student_id = ? AND advocate_id = ? AND status NOT IN ?",
			studentID, advocateID, []string{models.StatusAccepted, models.StatusDeclined}).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Transition applies one state change atomically. The status update is a
// compare-and-swap on (id, version); a zero-row result means a concurrent
// writer won and nothing is written, surfaced as ErrConflict.
func (s *ProposalStore) Transition(ctx context.Context, data matching.TransitionData) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":     data.Status,
			"version":    data.Proposal.Version + 1,
			"updated_at": time.Now(),
		}
		if data.Status == models.StatusDeclined {
			updates["decline_reason"] = data.DeclineReason
		}

		res := tx.Model(&models.MatchProposal{}).
			Where("id = ? AND version = ?", data.Proposal.ID, data.Proposal.Version).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: proposal %s was modified concurrently", matching.ErrConflict, data.Proposal.ID)
		}

		if data.IntroCall != nil {
			if err := tx.Create(data.IntroCall).Error; err != nil {
				return fmt.Errorf("insert intro call: %w", err)
			}
		}
		if data.Assignment != nil {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "advocate_id"}, {Name: "parent_id"}},
				DoNothing: true,
			}).Create(data.Assignment).Error
			if err != nil {
				return fmt.Errorf("upsert assignment: %w", err)
			}
		}

		if err := tx.Create(data.Event).Error; err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		return nil
	})
}

func (s *ProposalStore) ListEvents(ctx context.Context, proposalID string) ([]models.MatchEvent, error) {
	var rows []models.MatchEvent
	err := s.db.WithContext(ctx).
		Preload("Actor").
		Where("proposal_id = ?", proposalID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ActiveProposalCount implements matching.CapacityCounter: proposals in
// accepted or scheduled status for one advocate, read fresh every call.
func (s *ProposalStore) ActiveProposalCount(ctx context.Context, advocateID string) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.MatchProposal{}).
		Where("advocate_id = ? AND status IN ?",
			advocateID, []string{models.StatusAccepted, models.StatusScheduled}).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
