package user

import "time"

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Age   int    `validate:"gte=0,lte=150"`
}

// CreateUserResponse represents the response payload after creating a user.
type CreateUserResponse struct {
	User User
}

// UpdateUserRequest represents the request payload for updating an existing
// user. Nil fields are left unchanged.
type UpdateUserRequest struct {
	ID    string  `validate:"required"`
	Name  *string `validate:"omitempty"`
	Email *string `validate:"omitempty,email"`
	Age   *int    `validate:"omitempty,gte=0,lte=150"`
}

// UpdateUserResponse represents the response payload after updating a user.
type UpdateUserResponse struct {
	User User
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID string `validate:"required"`
}

// DeleteUserResponse reports whether a user was removed.
type DeleteUserResponse struct {
	Deleted bool
}

// GetUserRequest represents the request payload for retrieving a user by id.
type GetUserRequest struct {
	ID string `validate:"required"`
}

// GetUserByEmailRequest represents the request payload for retrieving a user
// by email. The lookup is case-insensitive.
type GetUserByEmailRequest struct {
	Email string `validate:"required"`
}

// GetUserResponse represents the response payload for user details.
type GetUserResponse struct {
	User User
}

// ListUsersRequest represents the request payload for listing users.
// It supports pagination and search functionality.
type ListUsersRequest struct {
	Query string
	Page  int64
	Limit int64
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users      []User
	Pagination *Pagination
}

// Pagination represents pagination information for list responses.
type Pagination struct {
	Total      int64
	Page       int64
	Limit      int64
	TotalPages int64
}

// User represents a user DTO (Data Transfer Object) for responses.
type User struct {
	ID        string
	Name      string
	Email     string
	Age       int
	CreatedAt time.Time
	UpdatedAt time.Time
}
