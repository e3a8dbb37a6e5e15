package user

import "context"

// Usecase defines the interface for user business logic operations.
//
// GetUser and GetUserByEmail return (nil, nil) when no live user matches;
// "not found" is an expected outcome for lookups, not an error.
type Usecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error)
	GetUserByEmail(ctx context.Context, in GetUserByEmailRequest) (*GetUserResponse, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error)
	DeleteAllUsers(ctx context.Context) error
	CountUsers(ctx context.Context) (int64, error)
	UserExists(ctx context.Context, id string) (bool, error)
}
