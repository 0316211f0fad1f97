package service

import (
	"context"

	"stayhost/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "5b1c9d8e-0000-4000-8000-000000000001"
	}
	return args.Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type mockListingRepo struct{ mock.Mock }

func (m *mockListingRepo) Create(ctx context.Context, l *model.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockListingRepo) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*model.Listing)
	return l, args.Error(1)
}

func (m *mockListingRepo) FindByOwner(ctx context.Context, ownerID string) ([]model.Listing, error) {
	args := m.Called(ctx, ownerID)
	l, _ := args.Get(0).([]model.Listing)
	return l, args.Error(1)
}

func (m *mockListingRepo) FindAll(ctx context.Context) ([]model.Listing, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]model.Listing)
	return l, args.Error(1)
}

func (m *mockListingRepo) Update(ctx context.Context, l *model.Listing) error {
	return m.Called(ctx, l).Error(0)
}
