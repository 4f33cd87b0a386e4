package memory

import (
	"context"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/repositories"
)

// UserRepository is the in-memory user store
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a memory UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) insertUserLocked(user *models.User) (int64, error) {
	for _, u := range r.db.users {
		if u.Username == user.Username || u.Email == user.Email {
			return 0, repositories.ErrDuplicate
		}
	}
	stored := clone(user)
	stored.ID = r.db.nextID("users")
	r.db.users[stored.ID] = stored
	return stored.ID, nil
}

func (r *UserRepository) insertCandidateLocked(candidate *models.Candidate) (int64, error) {
	if _, ok := r.db.users[candidate.UserID]; !ok {
		return 0, repositories.ErrNotFound
	}
	for _, c := range r.db.candidates {
		if c.CitizenID == candidate.CitizenID || c.UserID == candidate.UserID {
			return 0, repositories.ErrDuplicate
		}
	}
	stored := clone(candidate)
	stored.ID = r.db.nextID("candidates")
	r.db.candidates[stored.ID] = stored
	return stored.ID, nil
}

// CreateUser stores a user with a unique username and email
func (r *UserRepository) CreateUser(_ context.Context, user *models.User) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.insertUserLocked(user)
}

// CreateCandidate stores a candidate profile for an existing user
func (r *UserRepository) CreateCandidate(_ context.Context, candidate *models.Candidate) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.insertCandidateLocked(candidate)
}

// CreateCandidateAccount stores the user and candidate rows together
func (r *UserRepository) CreateCandidateAccount(_ context.Context, user *models.User, candidate *models.Candidate) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, c := range r.db.candidates {
		if c.CitizenID == candidate.CitizenID {
			return repositories.ErrDuplicate
		}
	}

	userID, err := r.insertUserLocked(user)
	if err != nil {
		return err
	}
	candidate.UserID = userID
	candidateID, err := r.insertCandidateLocked(candidate)
	if err != nil {
		delete(r.db.users, userID)
		return err
	}

	user.ID = userID
	candidate.ID = candidateID
	return nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if u, ok := r.db.users[id]; ok {
		return clone(u), nil
	}
	return nil, repositories.ErrNotFound
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.Username == username {
			return clone(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// GetCandidateByUserID retrieves the candidate profile owned by a user
func (r *UserRepository) GetCandidateByUserID(_ context.Context, userID int64) (*models.Candidate, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, c := range r.db.candidates {
		if c.UserID == userID {
			return clone(c), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// UpdateCandidateProfile rewrites both rows under one lock, so a duplicate email leaves neither changed
func (r *UserRepository) UpdateCandidateProfile(_ context.Context, user *models.User, candidate *models.Candidate) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	storedUser, ok := r.db.users[user.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	var storedCandidate *models.Candidate
	for _, c := range r.db.candidates {
		if c.UserID == user.ID {
			storedCandidate = c
			break
		}
	}
	if storedCandidate == nil {
		return repositories.ErrNotFound
	}
	for _, u := range r.db.users {
		if u.ID != user.ID && u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}

	storedUser.Email = user.Email
	storedUser.FullName = user.FullName
	storedUser.UpdatedAt = user.UpdatedAt

	storedCandidate.DateOfBirth = clone(candidate.DateOfBirth)
	storedCandidate.Gender = clone(candidate.Gender)
	storedCandidate.Address = clone(candidate.Address)
	storedCandidate.Phone = clone(candidate.Phone)
	storedCandidate.HighSchool = clone(candidate.HighSchool)
	storedCandidate.GraduationYear = clone(candidate.GraduationYear)
	return nil
}

// CountActiveCandidates counts candidate accounts that can still sign in
func (r *UserRepository) CountActiveCandidates(_ context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var count int64
	for _, u := range r.db.users {
		if u.Role == models.RoleCandidate && u.IsActive {
			count++
		}
	}
	return count, nil
}
