// Package mocks provides gomock implementations of the repository interfaces in internal/core.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockUserRepository(ctrl)
//	repo.EXPECT().GetByNetID(gomock.Any(), "cosmo").Return(user, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/softwareconstruction240/autograder/internal/core UserRepository
