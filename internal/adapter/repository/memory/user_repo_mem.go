package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "user-crud-service/internal/domain/user"
	"user-crud-service/internal/usecase/user"
	apperrors "user-crud-service/pkg/errors"
)

var _ user.Repository = (*UserRepoMem)(nil)

// UserRepoMem is an in-memory implementation of the user repository.
// The primary store maps id to user; a secondary index maps normalized
// email to id so uniqueness checks and by-email lookups avoid scans.
// Both structures are guarded by a single mutex so no caller can observe
// the store and the index out of sync.
type UserRepoMem struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	emails map[string]string // normalized email -> id
	order  []string          // ids in insertion order
	log    *zap.Logger
}

// NewUserRepoMem creates an empty in-memory user repository.
func NewUserRepoMem(log *zap.Logger) *UserRepoMem {
	return &UserRepoMem{
		users:  make(map[string]*domain.User),
		emails: make(map[string]string),
		log:    log,
	}
}

// Create validates and normalizes the given user, assigns a fresh id and
// timestamps, and inserts it into the store and the email index.
// Returns DuplicateEmailError if the normalized email belongs to a live user.
func (r *UserRepoMem) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if err := validateFields(u.Name, u.Email, u.Age); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.emails[email]; taken {
		return nil, apperrors.NewDuplicateEmailError(email)
	}

	now := time.Now()
	created := &domain.User{
		ID:        uuid.NewString(),
		Name:      domain.NormalizeName(u.Name),
		Email:     email,
		Age:       u.Age,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.users[created.ID] = created
	r.emails[created.Email] = created.ID
	r.order = append(r.order, created.ID)

	r.log.Debug("user created", zap.String("id", created.ID), zap.String("email", created.Email))

	out := *created
	return &out, nil
}

// GetByID returns the live user with the given id, or (nil, nil) if absent.
func (r *UserRepoMem) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}

	out := *u
	return &out, nil
}

// GetByEmail returns the live user with the given email, or (nil, nil) if
// absent. The lookup is case-insensitive.
func (r *UserRepoMem) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	key := domain.NormalizeEmail(email)

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emails[key]
	if !ok {
		return nil, nil
	}

	out := *r.users[id]
	return &out, nil
}

// GetAll returns copies of all live users in insertion order.
func (r *UserRepoMem) GetAll(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, *r.users[id])
	}
	return result, nil
}

// List returns one page of live users matching the query, in insertion
// order, together with the total number of matches. The query matches
// case-insensitively against name and email; an empty query matches all.
// page below 1 is treated as the first page; limit below 1 yields an empty
// page with the total still reported.
func (r *UserRepoMem) List(ctx context.Context, query string, page, limit int64) ([]domain.User, int64, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		u := r.users[id]
		if matchesQuery(u, q) {
			matched = append(matched, *u)
		}
	}

	total := int64(len(matched))
	if limit < 1 {
		return []domain.User{}, total, nil
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= total {
		return []domain.User{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// Update applies the provided patch fields to the user with the given id,
// re-validating each one and refreshing UpdatedAt. ID and CreatedAt are
// never changed. The email index is kept consistent when the email changes.
// Returns NotFoundError if no live user has the id, and DuplicateEmailError
// if the new email belongs to a different live user.
func (r *UserRepoMem) Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error) {
	if patch.Name != nil {
		if err := domain.ValidateName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.Email != nil {
		if err := domain.ValidateEmail(*patch.Email); err != nil {
			return nil, err
		}
	}
	if patch.Age != nil {
		if err := domain.ValidateAge(*patch.Age); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user", id)
	}

	// Check the email collision before touching any state so the update
	// stays all-or-nothing.
	if patch.Email != nil {
		newEmail := domain.NormalizeEmail(*patch.Email)
		if ownerID, taken := r.emails[newEmail]; taken && ownerID != id {
			return nil, apperrors.NewDuplicateEmailError(newEmail)
		}
	}

	if patch.Name != nil {
		u.Name = domain.NormalizeName(*patch.Name)
	}
	if patch.Email != nil {
		newEmail := domain.NormalizeEmail(*patch.Email)
		if newEmail != u.Email {
			delete(r.emails, u.Email)
			r.emails[newEmail] = id
			u.Email = newEmail
		}
	}
	if patch.Age != nil {
		u.Age = *patch.Age
	}
	u.UpdatedAt = time.Now()

	r.log.Debug("user updated", zap.String("id", id))

	out := *u
	return &out, nil
}

// Delete removes the user with the given id from the store, the email index
// and the insertion order. Returns false if no such user exists. The freed
// email becomes available for reuse; ids are never reused.
func (r *UserRepoMem) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return false, nil
	}

	delete(r.users, id)
	delete(r.emails, u.Email)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.log.Debug("user deleted", zap.String("id", id))
	return true, nil
}

// DeleteAll removes every live user.
func (r *UserRepoMem) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = make(map[string]*domain.User)
	r.emails = make(map[string]string)
	r.order = nil

	r.log.Debug("all users deleted")
	return nil
}

// Count returns the number of live users.
func (r *UserRepoMem) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.users)), nil
}

// Exists reports whether a live user with the given id exists.
func (r *UserRepoMem) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[id]
	return ok, nil
}

func validateFields(name, email string, age int) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	return domain.ValidateAge(age)
}

// matchesQuery expects q already trimmed and lowercased.
func matchesQuery(u *domain.User, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(u.Email, q)
}
