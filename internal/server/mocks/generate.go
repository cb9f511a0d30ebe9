// Package mocks holds gomock implementations of the server repository
// interfaces for service and transport tests.
//
// To regenerate after interface changes, run:
//
//	go generate ./internal/server/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockItemsRepository(ctrl)
//	repo.EXPECT().FindByName(gomock.Any(), "Pen").Return(item, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=users_repository_mock.go -mock_names=Repository=MockUsersRepository github.com/dmitrijs2005/stockkeeper/internal/server/repositories/users Repository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=items_repository_mock.go -mock_names=Repository=MockItemsRepository github.com/dmitrijs2005/stockkeeper/internal/server/repositories/items Repository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=transactions_repository_mock.go -mock_names=Repository=MockTransactionsRepository github.com/dmitrijs2005/stockkeeper/internal/server/repositories/transactions Repository
