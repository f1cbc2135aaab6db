// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"meddiary/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	meds     []domain.Medication
	intakes  []domain.IntakeRecord
	settings map[int64]domain.Settings
	users    []*domain.User
	sessions map[string]*domain.Session
	runs     map[string]time.Time

	medIDCounter    int64
	intakeIDCounter int64
	userIDCounter   int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		settings: make(map[int64]domain.Settings),
		sessions: make(map[string]*domain.Session),
		runs:     make(map[string]time.Time),
	}
}

// Ensure interfaces are met.
var _ domain.MedicationRepository = (*DB)(nil)
var _ domain.IntakeRepository = (*DB)(nil)
var _ domain.SettingsRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.RunLimiter = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- MedicationRepository ---

// ListMedications returns the user's medications ordered by time of day.
func (db *DB) ListMedications(ctx context.Context, userID int64) ([]domain.Medication, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.Medication, 0)
	for _, m := range db.meds {
		if m.UserID == userID {
			m.Days = slices.Clone(m.Days)
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Medication) int {
		return cmp.Or(cmp.Compare(a.Time, b.Time), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// GetMedication returns a medication owned by userID.
func (db *DB) GetMedication(ctx context.Context, userID, id int64) (*domain.Medication, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if i := db.medIndex(userID, id); i >= 0 {
		m := db.meds[i]
		m.Days = slices.Clone(m.Days)
		return &m, nil
	}
	return nil, domain.ErrNotFound
}

// CreateMedication stores m under a new id.
func (db *DB) CreateMedication(ctx context.Context, m domain.Medication) (*domain.Medication, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.medIDCounter++
	m.ID = db.medIDCounter
	m.Days = slices.Clone(m.Days)
	m.CreatedAt = time.Now().UTC()
	db.meds = append(db.meds, m)
	return &m, nil
}

// UpdateMedication overwrites the editable fields of m.
func (db *DB) UpdateMedication(ctx context.Context, m domain.Medication) (*domain.Medication, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.medIndex(m.UserID, m.ID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	stored := &db.meds[i]
	stored.Name = m.Name
	stored.Time = m.Time
	stored.Days = slices.Clone(m.Days)
	stored.Notes = m.Notes
	out := *stored
	return &out, nil
}

// DeleteMedication removes a medication. Its intakes are left in place.
func (db *DB) DeleteMedication(ctx context.Context, userID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.medIndex(userID, id)
	if i < 0 {
		return domain.ErrNotFound
	}
	db.meds = slices.Delete(db.meds, i, i+1)
	return nil
}

func (db *DB) medIndex(userID, id int64) int {
	return slices.IndexFunc(db.meds, func(m domain.Medication) bool {
		return m.ID == id && m.UserID == userID
	})
}

// --- IntakeRepository ---

// ListIntakes returns intakes in [from, to], newest first, joined with the
// medication when it still exists.
func (db *DB) ListIntakes(ctx context.Context, userID int64, from, to string) ([]domain.IntakeRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.IntakeRecord, 0)
	for _, r := range db.intakes {
		if r.UserID != userID || r.Date < from || r.Date > to {
			continue
		}
		r.Med = nil
		if i := db.medIndex(userID, r.MedID); i >= 0 {
			m := db.meds[i]
			r.Med = &domain.IntakeMed{Name: m.Name, Time: m.Time, Notes: m.Notes}
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b domain.IntakeRecord) int {
		return cmp.Or(cmp.Compare(b.Date, a.Date), b.TakenAt.Compare(a.TakenAt))
	})
	return out, nil
}

// AddIntake records medID as taken on date.
func (db *DB) AddIntake(ctx context.Context, userID, medID int64, date string, takenAt time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.intakeIndex(userID, medID, date) >= 0 {
		return 0, domain.ErrDuplicateIntake
	}
	db.intakeIDCounter++
	db.intakes = append(db.intakes, domain.IntakeRecord{
		ID:      db.intakeIDCounter,
		UserID:  userID,
		MedID:   medID,
		Date:    date,
		TakenAt: takenAt.UTC(),
	})
	return db.intakeIDCounter, nil
}

// DeleteIntake removes the intake of medID on date.
func (db *DB) DeleteIntake(ctx context.Context, userID, medID int64, date string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.intakeIndex(userID, medID, date)
	if i < 0 {
		return false, nil
	}
	db.intakes = slices.Delete(db.intakes, i, i+1)
	return true, nil
}

func (db *DB) intakeIndex(userID, medID int64, date string) int {
	return slices.IndexFunc(db.intakes, func(r domain.IntakeRecord) bool {
		return r.UserID == userID && r.MedID == medID && r.Date == date
	})
}

// --- SettingsRepository ---

// GetSettings returns the user's settings, or nil when none are stored.
func (db *DB) GetSettings(ctx context.Context, userID int64) (*domain.Settings, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if s, ok := db.settings[userID]; ok {
		return &s, nil
	}
	return nil, nil
}

// UpsertSettings stores s.
func (db *DB) UpsertSettings(ctx context.Context, s domain.Settings) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.settings[s.UserID] = s
	return nil
}

// --- RunLimiter ---

// Acquire grants key once until ttl elapses.
func (db *DB) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := time.Now()
	if until, ok := db.runs[key]; ok && now.Before(until) {
		return false, nil
	}
	db.runs[key] = now.Add(ttl)
	return true, nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// UpdatePassword replaces the password hash of a user.
func (db *DB) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, u := range db.users {
		if u.ID == id {
			cp := *u
			cp.PasswordHash = passwordHash
			db.users[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		out := *s
		return &out, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
