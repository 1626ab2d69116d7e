// Package mocks holds generated gomock doubles for the port interfaces.
//
// Regenerate after interface changes:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	repo := mocks.NewMockUserRepository(ctrl)
//	repo.EXPECT().FindByUsername(gomock.Any(), "alice").Return(user, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_repository_mock.go github.com/reliefbridge/relief-ui-api/internal/ports UserRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=identity_store_mock.go github.com/reliefbridge/relief-ui-api/internal/ports IdentityStore

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=password_hasher_mock.go github.com/reliefbridge/relief-ui-api/internal/ports PasswordHasher
