package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/reliefbridge/relief-ui-api/internal/domain/auth"
	"github.com/reliefbridge/relief-ui-api/internal/domain/model"
	apperrors "github.com/reliefbridge/relief-ui-api/internal/errors"
	"github.com/reliefbridge/relief-ui-api/internal/mocks"
	mockauth "github.com/reliefbridge/relief-ui-api/internal/mocks/auth"
)

func newTestService() (*AuthService, *mockauth.MemoryUserRepository) {
	users := mockauth.NewMemoryUserRepository()
	svc := NewAuthService(AuthServiceOptions{Users: users, Hasher: mockauth.PlainHasher{}})
	return svc, users
}

func seedApproved(users *mockauth.MemoryUserRepository, username, secret string, role auth.Role) *model.User {
	hash, _ := mockauth.PlainHasher{}.Hash(secret)
	return users.Seed(model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Approved:     true,
	})
}

func TestLogin_Success(t *testing.T) {
	svc, users := newTestService()
	seeded := seedApproved(users, "alice", "s3cret", auth.RoleDonor)

	result, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, seeded.UserID, result.UserID)
	assert.Equal(t, "alice", result.Username)
	assert.Equal(t, auth.RoleDonor, result.Role)
}

func TestLogin_Failures(t *testing.T) {
	svc, users := newTestService()
	seedApproved(users, "alice", "s3cret", auth.RoleDonor)

	hash, _ := mockauth.PlainHasher{}.Hash("pw")
	users.Seed(model.User{Username: "pending", PasswordHash: hash, Role: auth.RoleRecipient, Approved: false})

	tests := []struct {
		name     string
		username string
		secret   string
		wantCode apperrors.ErrorCode
	}{
		{"unknown username", "nobody", "s3cret", apperrors.ErrCodeUnauthorized},
		{"wrong password", "alice", "wrong", apperrors.ErrCodeUnauthorized},
		{"unapproved account", "pending", "pw", apperrors.ErrCodeUnauthorized},
		{"empty username", "", "pw", apperrors.ErrCodeValidation},
		{"empty password", "alice", "", apperrors.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(context.Background(), tt.username, tt.secret)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
		})
	}
}

func TestLogin_ErrorDoesNotRevealWhichCheckFailed(t *testing.T) {
	svc, users := newTestService()
	seedApproved(users, "alice", "s3cret", auth.RoleDonor)

	_, errUnknown := svc.Login(context.Background(), "nobody", "x")
	_, errWrongPw := svc.Login(context.Background(), "alice", "x")
	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestRequestAccount_CreatesUnapproved(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.RequestAccount(context.Background(), RequestAccountInput{
		Username: "carol",
		Password: "pw",
		Role:     auth.RoleRecipient,
		Email:    "carol@example.com",
		ZipCode:  "55101",
	})
	require.NoError(t, err)
	assert.False(t, user.Approved)
	assert.NotEmpty(t, user.UserID)
	assert.NotEqual(t, "pw", user.PasswordHash)

	// Unapproved accounts cannot log in yet.
	_, err = svc.Login(context.Background(), "carol", "pw")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.CodeOf(err))
}

func TestRequestAccount_DuplicateUsername(t *testing.T) {
	svc, users := newTestService()
	seedApproved(users, "alice", "pw", auth.RoleDonor)

	_, err := svc.RequestAccount(context.Background(), RequestAccountInput{
		Username: "alice", Password: "pw2", Role: auth.RoleDonor,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeConflict, apperrors.CodeOf(err))
}

func TestRequestAccount_MissingFields(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RequestAccount(context.Background(), RequestAccountInput{Username: "x"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
}

func TestChangePassword_VerifiesOldPassword(t *testing.T) {
	svc, users := newTestService()
	seedApproved(users, "alice", "old-pw", auth.RoleDonor)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "alice", "wrong", "new-pw")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.CodeOf(err))

	// The old password still works after the failed attempt.
	_, err = svc.Login(ctx, "alice", "old-pw")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, "alice", "old-pw", "new-pw"))

	_, err = svc.Login(ctx, "alice", "old-pw")
	require.Error(t, err)
	_, err = svc.Login(ctx, "alice", "new-pw")
	require.NoError(t, err)
}

func TestResetForgottenPassword_SkipsOldPasswordCheck(t *testing.T) {
	svc, users := newTestService()
	seedApproved(users, "alice", "forgotten", auth.RoleRecipient)
	ctx := context.Background()

	require.NoError(t, svc.ResetForgottenPassword(ctx, "alice", "new-pw"))

	_, err := svc.Login(ctx, "alice", "new-pw")
	require.NoError(t, err)
}

func TestLogin_RepositoryFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserRepository(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "alice").
		Return(nil, apperrors.Internal("database error", errors.New("connection refused")))

	svc := NewAuthService(AuthServiceOptions{Users: users, Hasher: mockauth.PlainHasher{}})
	_, err := svc.Login(context.Background(), "alice", "s3cret")
	require.Error(t, err)

	// An infrastructure failure must not read as bad credentials.
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.CodeOf(err))
}

func TestRequestAccount_HashFailureStopsBeforeRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hasher := mocks.NewMockPasswordHasher(ctrl)
	hasher.EXPECT().Hash("pw").Return("", errors.New("cost out of range"))

	// No Create expectation: the repository must never see the request.
	users := mocks.NewMockUserRepository(ctrl)

	svc := NewAuthService(AuthServiceOptions{Users: users, Hasher: hasher})
	_, err := svc.RequestAccount(context.Background(), RequestAccountInput{
		Username: "carol", Password: "pw", Role: auth.RoleRecipient,
	})
	require.Error(t, err)
}

func TestChangePassword_StoresTheNewHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserRepository(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(&model.User{
		UserID:       "user-1",
		Username:     "alice",
		PasswordHash: "plain:old-pw",
		Role:         auth.RoleDonor,
		Approved:     true,
	}, nil)
	users.EXPECT().UpdatePassword(gomock.Any(), "user-1", "plain:new-pw").Return(nil)

	svc := NewAuthService(AuthServiceOptions{Users: users, Hasher: mockauth.PlainHasher{}})
	require.NoError(t, svc.ChangePassword(context.Background(), "alice", "old-pw", "new-pw"))
}

func TestResetForgottenPassword_UnknownOrUnapproved(t *testing.T) {
	svc, users := newTestService()
	hash, _ := mockauth.PlainHasher{}.Hash("pw")
	users.Seed(model.User{Username: "pending", PasswordHash: hash, Role: auth.RoleDonor, Approved: false})

	for _, username := range []string{"nobody", "pending"} {
		err := svc.ResetForgottenPassword(context.Background(), username, "new-pw")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.CodeOf(err))
	}
}
