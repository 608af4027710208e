// Package mocks provides testify mocks for the storage interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/upright/escrow/pkg/models"
)

// Storage is a mock implementation of the storage.Storage interface.
type Storage struct {
	mock.Mock
}

func (m *Storage) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *Storage) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}

func (m *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *Storage) SaveUsers(ctx context.Context, users []models.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func (m *Storage) GetSession(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *Storage) SetSession(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *Storage) ClearSession(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
