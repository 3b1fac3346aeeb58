package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/myiephero/matchengine/matching"
	"github.com/myiephero/matchengine/models"
)

// StudentStore reads externally-owned student records and performs the one
// write the engine makes there: merging extracted needs.
type StudentStore struct {
	db *gorm.DB
}

func NewStudentStore(db *gorm.DB) *StudentStore {
	return &StudentStore{db: db}
}

func (s *StudentStore) Get(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := s.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student %s: %w", id, matching.ErrNotFound)
		}
		return nil, err
	}
	return &student, nil
}

func (s *StudentStore) UpdateNeeds(ctx context.Context, id string, needs []string) error {
	return s.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Update("needs", datatypes.NewJSONSlice(needs)).Error
}

// AdvocateStore reads externally-owned advocate profiles.
type AdvocateStore struct {
	db *gorm.DB
}

func NewAdvocateStore(db *gorm.DB) *AdvocateStore {
	return &AdvocateStore{db: db}
}

func (s *AdvocateStore) Get(ctx context.Context, id string) (*models.AdvocateProfile, error) {
	var advocate models.AdvocateProfile
	if err := s.db.WithContext(ctx).First(&advocate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("advocate %s: %w", id, matching.ErrNotFound)
		}
		return nil, err
	}
	return &advocate, nil
}
