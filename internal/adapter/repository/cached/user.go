package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-crud-service/internal/adapter/cache"
	domain "user-crud-service/internal/domain/user"
	"user-crud-service/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with caching support.
// It wraps a backing repository and a cache implementation.
type CachedUserRepository struct {
	repo  user.Repository
	cache cache.UserCache
	log   *zap.Logger
	group singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(repo user.Repository, cache cache.UserCache, log *zap.Logger) user.Repository {
	return &CachedUserRepository{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create delegates to the backing repository.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.repo.Create(ctx, u)
}

// GetByID retrieves a user by id using the cache-aside pattern.
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to repository", zap.String("id", id), zap.Error(err))
		} else if cachedUser != nil {
			r.log.Debug("user retrieved from cache", zap.String("id", id))
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := "user:" + id
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Double-check cache in case another request populated it while
		// we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				r.log.Debug("user retrieved from cache after single-flight wait", zap.String("id", id))
				return cachedUser, nil
			}
		}

		u, err := r.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u == nil {
			// Negative results are not cached
			return (*domain.User)(nil), nil
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("id", id), zap.Error(err))
			}
		}

		return u, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*domain.User), nil
}

// GetByEmail delegates to the backing repository.
func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.repo.GetByEmail(ctx, email)
}

// GetAll delegates to the backing repository.
func (r *CachedUserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	return r.repo.GetAll(ctx)
}

// List delegates to the backing repository.
func (r *CachedUserRepository) List(ctx context.Context, query string, page, limit int64) ([]domain.User, int64, error) {
	return r.repo.List(ctx, query, page, limit)
}

// Update updates the user in the backing repository and invalidates the cache.
func (r *CachedUserRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error) {
	updated, err := r.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate cache after update", zap.String("id", id), zap.Error(err))
		}
	}

	return updated, nil
}

// Delete deletes the user from the backing repository and invalidates the cache.
func (r *CachedUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate cache after delete", zap.String("id", id), zap.Error(err))
		}
	}

	return deleted, nil
}

// DeleteAll clears the backing repository and the cache.
func (r *CachedUserRepository) DeleteAll(ctx context.Context) error {
	if err := r.repo.DeleteAll(ctx); err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.DeleteAll(ctx); err != nil {
			r.log.Warn("failed to invalidate cache after delete all", zap.Error(err))
		}
	}

	return nil
}

// Count delegates to the backing repository.
func (r *CachedUserRepository) Count(ctx context.Context) (int64, error) {
	return r.repo.Count(ctx)
}

// Exists delegates to the backing repository.
func (r *CachedUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.repo.Exists(ctx, id)
}
