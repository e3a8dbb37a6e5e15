package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-crud-service/internal/domain/user"
	apperrors "user-crud-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, query string, page, limit int64) ([]domain.User, int64, error) {
	args := m.Called(ctx, query, page, limit)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// Test helper to build a usecase with a mock repo
func setupTestUsecase(t *testing.T) (Usecase, *MockRepository) {
	mockRepo := new(MockRepository)
	log := zaptest.NewLogger(t)
	uc := New(mockRepo, log)
	return uc, mockRepo
}

func sampleUser() *domain.User {
	now := time.Now()
	return &domain.User{
		ID:        "3f2f1a8e-98a1-4f7e-9c39-5a2b9a3e6f01",
		Name:      "John Doe",
		Email:     "john@example.com",
		Age:       30,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "john@example.com",
		Age:   30,
	}
	created := sampleUser()

	// GetByEmail returns nil (email not taken)
	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == req.Name && u.Email == req.Email && u.Age == req.Age
	})).Return(created, nil)

	resp, err := uc.CreateUser(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, created.ID, resp.User.ID)
	assert.Equal(t, created.Email, resp.User.Email)

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_ValidationError_NameRequired(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	resp, err := uc.CreateUser(ctx, CreateUserRequest{
		Name:  "",
		Email: "john@example.com",
		Age:   30,
	})

	require.Error(t, err)
	assert.Nil(t, resp)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Name", verr.Field)
}

func TestCreateUser_ValidationError_NameWhitespaceOnly(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	resp, err := uc.CreateUser(ctx, CreateUserRequest{
		Name:  "   ",
		Email: "john@example.com",
		Age:   30,
	})

	require.Error(t, err)
	assert.Nil(t, resp)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateUser_ValidationError_EmailInvalid(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	resp, err := uc.CreateUser(ctx, CreateUserRequest{
		Name:  "John Doe",
		Email: "invalid-email",
		Age:   30,
	})

	require.Error(t, err)
	assert.Nil(t, resp)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email", verr.Field)
}

func TestCreateUser_ValidationError_AgeOutOfRange(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	for _, age := range []int{-1, 151} {
		resp, err := uc.CreateUser(ctx, CreateUserRequest{
			Name:  "John Doe",
			Email: "john@example.com",
			Age:   age,
		})

		require.Error(t, err, "age %d", age)
		assert.Nil(t, resp)
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Age", verr.Field)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	existing := sampleUser()
	mockRepo.On("GetByEmail", ctx, "john@example.com").Return(existing, nil)

	resp, err := uc.CreateUser(ctx, CreateUserRequest{
		Name:  "Ana",
		Email: "john@example.com",
		Age:   25,
	})

	require.Error(t, err)
	assert.Nil(t, resp)
	var derr *apperrors.DuplicateEmailError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "john@example.com", derr.Email)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ==================== GET USER TESTS ====================

func TestGetUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	u := sampleUser()
	mockRepo.On("GetByID", ctx, u.ID).Return(u, nil)

	resp, err := uc.GetUser(ctx, GetUserRequest{ID: u.ID})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, u.Name, resp.User.Name)
	assert.Equal(t, u.Age, resp.User.Age)
}

func TestGetUser_Absent_ReturnsNilNil(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "missing-id").Return(nil, nil)

	resp, err := uc.GetUser(ctx, GetUserRequest{ID: "missing-id"})

	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestGetUserByEmail_Absent_ReturnsNilNil(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, nil)

	resp, err := uc.GetUserByEmail(ctx, GetUserByEmailRequest{Email: "nobody@example.com"})

	require.NoError(t, err)
	assert.Nil(t, resp)
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_Success_PartialAge(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	u := sampleUser()
	age := 31
	updated := *u
	updated.Age = age
	updated.UpdatedAt = time.Now()

	mockRepo.On("Update", ctx, u.ID, mock.MatchedBy(func(p domain.Patch) bool {
		return p.Name == nil && p.Email == nil && p.Age != nil && *p.Age == age
	})).Return(&updated, nil)

	resp, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: u.ID, Age: &age})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, u.ID, resp.User.ID)
	assert.Equal(t, age, resp.User.Age)
	assert.Equal(t, u.Name, resp.User.Name)

	mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestUpdateUser_DuplicateEmail_OtherUser(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	other := sampleUser()
	email := "john@example.com"

	mockRepo.On("GetByEmail", ctx, email).Return(other, nil)

	resp, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: "another-id", Email: &email})

	require.Error(t, err)
	assert.Nil(t, resp)
	var derr *apperrors.DuplicateEmailError
	require.ErrorAs(t, err, &derr)

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUser_OwnEmail_NotACollision(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	u := sampleUser()
	mockRepo.On("GetByEmail", ctx, u.Email).Return(u, nil)
	mockRepo.On("Update", ctx, u.ID, mock.Anything).Return(u, nil)

	resp, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: u.ID, Email: &u.Email})

	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestUpdateUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	age := 20
	mockRepo.On("Update", ctx, "missing-id", mock.Anything).
		Return(nil, apperrors.NewNotFoundError("user", "missing-id"))

	resp, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: "missing-id", Age: &age})

	require.Error(t, err)
	assert.Nil(t, resp)
	var nerr *apperrors.NotFoundError
	require.ErrorAs(t, err, &nerr)
}

func TestUpdateUser_ValidationError_EmailInvalid(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	email := "not-an-email"
	resp, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: "some-id", Email: &email})

	require.Error(t, err)
	assert.Nil(t, resp)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, "some-id").Return(true, nil)

	resp, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: "some-id"})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, resp.Deleted)
}

func TestDeleteUser_Absent(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, "missing-id").Return(false, nil)

	resp, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: "missing-id"})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.False(t, resp.Deleted)
}

// ==================== LIST USERS TESTS ====================

func TestListUsers_ClampsPageAndLimit(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx, "", int64(1), int64(10)).Return([]domain.User{}, int64(0), nil)

	resp, err := uc.ListUsers(ctx, ListUsersRequest{Page: 0, Limit: 0})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Empty(t, resp.Users)
	assert.Equal(t, int64(1), resp.Pagination.Page)
	assert.Equal(t, int64(10), resp.Pagination.Limit)
}

func TestListUsers_LimitCappedAt100(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx, "ana", int64(2), int64(100)).Return([]domain.User{*sampleUser()}, int64(101), nil)

	resp, err := uc.ListUsers(ctx, ListUsersRequest{Query: "ana", Page: 2, Limit: 9999})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, int64(101), resp.Pagination.Total)
	assert.Equal(t, int64(2), resp.Pagination.TotalPages)
}

// ==================== COUNT / EXISTS ====================

func TestCountUsers(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Count", ctx).Return(int64(3), nil)

	count, err := uc.CountUsers(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestUserExists(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Exists", ctx, "some-id").Return(true, nil)

	exists, err := uc.UserExists(ctx, "some-id")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeleteAllUsers(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("DeleteAll", ctx).Return(nil)

	require.NoError(t, uc.DeleteAllUsers(ctx))
	mockRepo.AssertExpectations(t)
}
