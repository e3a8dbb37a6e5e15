package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "user-crud-service/internal/domain/user"
	apperrors "user-crud-service/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for user data access operations.
// It abstracts the storage layer, allowing different implementations
// (e.g., in-memory, cached) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)                          // Create a new user with a fresh id and timestamps
	GetByID(ctx context.Context, id string) (*domain.User, error)                              // Retrieve user by id, (nil, nil) if absent
	GetByEmail(ctx context.Context, email string) (*domain.User, error)                        // Case-insensitive lookup by email, (nil, nil) if absent
	GetAll(ctx context.Context) ([]domain.User, error)                                         // All live users in insertion order
	List(ctx context.Context, query string, page, limit int64) ([]domain.User, int64, error)   // One page of matching users plus total matches
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error)           // Apply a partial update
	Delete(ctx context.Context, id string) (bool, error)                                       // Delete by id, false if absent
	DeleteAll(ctx context.Context) error                                                       // Remove every live user
	Count(ctx context.Context) (int64, error)                                                  // Number of live users
	Exists(ctx context.Context, id string) (bool, error)                                       // Whether a live user with the id exists
}

// usecase implements the business logic for user management operations.
// It provides a clean separation between callers and the storage layer.
type usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) Usecase {
	return &usecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a typed
// ValidationError carrying the first failing field.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		e := validationErrors[0]
		switch e.Tag() {
		case "required":
			return apperrors.NewValidationError(e.Field(), "is required")
		case "email":
			return apperrors.NewValidationError(e.Field(), "must be a valid email address")
		case "gte":
			return apperrors.NewValidationError(e.Field(), fmt.Sprintf("must be at least %s", e.Param()))
		case "lte":
			return apperrors.NewValidationError(e.Field(), fmt.Sprintf("must be at most %s", e.Param()))
		default:
			return apperrors.NewValidationError(e.Field(), "is invalid")
		}
	}
	return err
}

// CreateUser creates a new user after validating the request and checking
// email uniqueness.
func (uc *usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	uc.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}
	if err := domain.ValidateName(in.Name); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	existingUser, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existingUser != nil {
		uc.log.Warn("email already exists", zap.String("email", existingUser.Email))
		return nil, apperrors.NewDuplicateEmailError(existingUser.Email)
	}

	created, err := uc.repo.Create(ctx, &domain.User{
		Name:  in.Name,
		Email: in.Email,
		Age:   in.Age,
	})
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return &CreateUserResponse{User: toDTO(created)}, nil
}

// GetUser retrieves a user by id. Returns (nil, nil) when absent.
func (uc *usecase) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("get user validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to get user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return &GetUserResponse{User: toDTO(u)}, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
// Returns (nil, nil) when absent.
func (uc *usecase) GetUserByEmail(ctx context.Context, in GetUserByEmailRequest) (*GetUserResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("get user by email validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to get user by email", zap.Error(err))
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return &GetUserResponse{User: toDTO(u)}, nil
}

// GetAllUsers returns every live user in insertion order.
func (uc *usecase) GetAllUsers(ctx context.Context) ([]User, error) {
	domainUsers, err := uc.repo.GetAll(ctx)
	if err != nil {
		uc.log.Error("failed to get all users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = toDTO(&du)
	}
	return users, nil
}

// ListUsers retrieves a paginated list of users with optional search
// functionality.
func (uc *usecase) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = 10
	}
	if in.Limit > 100 {
		in.Limit = 100
	}

	uc.log.Info("listing users", zap.String("query", in.Query), zap.Int64("page", in.Page), zap.Int64("limit", in.Limit))

	domainUsers, total, err := uc.repo.List(ctx, in.Query, in.Page, in.Limit)
	if err != nil {
		uc.log.Error("failed to list users", zap.String("query", in.Query), zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = toDTO(&du)
	}

	p := domain.NewPagination(total, in.Page, in.Limit)
	return &ListUsersResponse{
		Users: users,
		Pagination: &Pagination{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
		},
	}, nil
}

// UpdateUser updates an existing user after validating the request and
// checking email uniqueness. Only the provided fields are changed.
func (uc *usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error) {
	uc.log.Info("updating user", zap.String("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}
	if in.Name != nil {
		if err := domain.ValidateName(*in.Name); err != nil {
			uc.log.Warn("validate failed", zap.Error(err))
			return nil, err
		}
	}

	if in.Email != nil {
		existingUser, err := uc.repo.GetByEmail(ctx, *in.Email)
		if err != nil {
			uc.log.Error("failed to check existing email", zap.Error(err))
			return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
		}
		if existingUser != nil && existingUser.ID != in.ID {
			uc.log.Warn("email already exists", zap.String("email", existingUser.Email), zap.String("existing_id", existingUser.ID))
			return nil, apperrors.NewDuplicateEmailError(existingUser.Email)
		}
	}

	updated, err := uc.repo.Update(ctx, in.ID, domain.Patch{
		Name:  in.Name,
		Email: in.Email,
		Age:   in.Age,
	})
	if err != nil {
		uc.log.Error("failed to update user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &UpdateUserResponse{User: toDTO(updated)}, nil
}

// DeleteUser deletes a user by id. Deleted is false when no such user exists.
func (uc *usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	uc.log.Info("deleting user", zap.String("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("delete user validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	deleted, err := uc.repo.Delete(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to delete user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &DeleteUserResponse{Deleted: deleted}, nil
}

// DeleteAllUsers removes every live user.
func (uc *usecase) DeleteAllUsers(ctx context.Context) error {
	uc.log.Info("deleting all users")

	if err := uc.repo.DeleteAll(ctx); err != nil {
		uc.log.Error("failed to delete all users", zap.Error(err))
		return err
	}
	return nil
}

// CountUsers returns the number of live users.
func (uc *usecase) CountUsers(ctx context.Context) (int64, error) {
	count, err := uc.repo.Count(ctx)
	if err != nil {
		uc.log.Error("failed to count users", zap.Error(err))
		return 0, err
	}
	return count, nil
}

// UserExists reports whether a live user with the given id exists.
func (uc *usecase) UserExists(ctx context.Context, id string) (bool, error) {
	exists, err := uc.repo.Exists(ctx, id)
	if err != nil {
		uc.log.Error("failed to check user existence", zap.String("id", id), zap.Error(err))
		return false, err
	}
	return exists, nil
}

func toDTO(u *domain.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
