package app

import (
	"context"
	"fmt"

	"meddiary/internal/domain"
)

// MedicationService encapsulates medication management use cases.
type MedicationService struct {
	repo domain.MedicationRepository
}

// NewMedicationService creates a MedicationService backed by the given repository.
func NewMedicationService(repo domain.MedicationRepository) *MedicationService {
	return &MedicationService{repo: repo}
}

// List returns the user's medications ordered by time of day.
func (s *MedicationService) List(ctx context.Context, userID int64) ([]domain.Medication, error) {
	meds, err := s.repo.ListMedications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	domain.SortByTime(meds)
	return meds, nil
}

// Create validates and stores a new medication for userID.
func (s *MedicationService) Create(ctx context.Context, userID int64, m domain.Medication) (*domain.Medication, error) {
	m.ID = 0
	m.UserID = userID
	m.Normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateMedication(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("create medication: %w", err)
	}
	return created, nil
}

// Update applies patch to an existing medication. Past intakes keep pointing
// at the same id and pick up the new fields on the next read.
func (s *MedicationService) Update(ctx context.Context, userID, id int64, patch domain.MedicationPatch) (*domain.Medication, error) {
	existing, err := s.repo.GetMedication(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(*existing)
	updated.ID = id
	updated.UserID = userID
	updated.Normalize()
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	saved, err := s.repo.UpdateMedication(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("update medication: %w", err)
	}
	return saved, nil
}

// Delete removes a medication. Its intakes stay behind and surface as
// orphaned in the history.
func (s *MedicationService) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteMedication(ctx, userID, id)
}
