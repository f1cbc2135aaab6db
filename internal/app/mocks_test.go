package app_test

import (
	"context"
	"time"

	"meddiary/internal/domain"
)

type mockMedRepo struct {
	listFn   func(ctx context.Context, userID int64) ([]domain.Medication, error)
	getFn    func(ctx context.Context, userID, id int64) (*domain.Medication, error)
	createFn func(ctx context.Context, m domain.Medication) (*domain.Medication, error)
	updateFn func(ctx context.Context, m domain.Medication) (*domain.Medication, error)
	deleteFn func(ctx context.Context, userID, id int64) error
}

func (m *mockMedRepo) ListMedications(ctx context.Context, userID int64) ([]domain.Medication, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockMedRepo) GetMedication(ctx context.Context, userID, id int64) (*domain.Medication, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockMedRepo) CreateMedication(ctx context.Context, med domain.Medication) (*domain.Medication, error) {
	if m.createFn != nil {
		return m.createFn(ctx, med)
	}
	med.ID = 1
	return &med, nil
}

func (m *mockMedRepo) UpdateMedication(ctx context.Context, med domain.Medication) (*domain.Medication, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, med)
	}
	return &med, nil
}

func (m *mockMedRepo) DeleteMedication(ctx context.Context, userID, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

type mockIntakeRepo struct {
	listFn func(ctx context.Context, userID int64, from, to string) ([]domain.IntakeRecord, error)
	addFn  func(ctx context.Context, userID, medID int64, date string, takenAt time.Time) (int64, error)
	delFn  func(ctx context.Context, userID, medID int64, date string) (bool, error)
}

func (m *mockIntakeRepo) ListIntakes(ctx context.Context, userID int64, from, to string) ([]domain.IntakeRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, from, to)
	}
	return nil, nil
}

func (m *mockIntakeRepo) AddIntake(ctx context.Context, userID, medID int64, date string, takenAt time.Time) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, userID, medID, date, takenAt)
	}
	return 1, nil
}

func (m *mockIntakeRepo) DeleteIntake(ctx context.Context, userID, medID int64, date string) (bool, error) {
	if m.delFn != nil {
		return m.delFn(ctx, userID, medID, date)
	}
	return false, nil
}

type mockSettingsRepo struct {
	getFn    func(ctx context.Context, userID int64) (*domain.Settings, error)
	upsertFn func(ctx context.Context, s domain.Settings) error
}

func (m *mockSettingsRepo) GetSettings(ctx context.Context, userID int64) (*domain.Settings, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockSettingsRepo) UpsertSettings(ctx context.Context, s domain.Settings) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, s)
	}
	return nil
}

func med(id int64, clock string, days ...domain.RecurrenceToken) domain.Medication {
	return domain.Medication{ID: id, UserID: 1, Name: "med", Time: clock, Days: days}
}

func intake(id, medID int64, date string) domain.IntakeRecord {
	return domain.IntakeRecord{ID: id, UserID: 1, MedID: medID, Date: date, TakenAt: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
}
