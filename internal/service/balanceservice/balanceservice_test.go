package balanceservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/nmoskalenko/walletgate/internal/domain"
	"github.com/nmoskalenko/walletgate/pkg/cache"
)

func NewMock(t *testing.T) (*Service, *MockBalanceRepo, *cache.MemoryCache) {
	ctrl := gomock.NewController(t)
	repo := NewMockBalanceRepo(ctrl)
	memCache := cache.NewMemoryCache()

	service := New(repo, memCache)
	defer ctrl.Finish()
	return service, repo, memCache
}

func TestGetBalance(t *testing.T) {
	tests := []struct {
		name          string
		userID        int
		prepare       func(repo *MockBalanceRepo, c *cache.MemoryCache)
		expected      *domain.Balance
		expectedError error
	}{
		{
			name:   "Cache miss reads repository and caches",
			userID: 1,
			prepare: func(repo *MockBalanceRepo, c *cache.MemoryCache) {
				repo.EXPECT().GetUserBalance(context.Background(), 1).Return(&domain.Balance{
					ID:             1,
					UserID:         1,
					CurrentBalance: 100.5,
					DepositedTotal: 250.0,
				}, nil)
			},
			expected: &domain.Balance{
				ID:             1,
				UserID:         1,
				CurrentBalance: 100.5,
				DepositedTotal: 250.0,
			},
			expectedError: nil,
		},
		{
			name:   "Cache hit skips repository",
			userID: 2,
			prepare: func(repo *MockBalanceRepo, c *cache.MemoryCache) {
				c.Set(context.Background(), CacheKey(2),
					`{"ID":2,"UserID":2,"CurrentBalance":55,"DepositedTotal":55}`, time.Minute)
			},
			expected: &domain.Balance{
				ID:             2,
				UserID:         2,
				CurrentBalance: 55,
				DepositedTotal: 55,
			},
			expectedError: nil,
		},
		{
			name:   "Corrupt cache entry falls back to repository",
			userID: 3,
			prepare: func(repo *MockBalanceRepo, c *cache.MemoryCache) {
				c.Set(context.Background(), CacheKey(3), "{not json", time.Minute)
				repo.EXPECT().GetUserBalance(context.Background(), 3).Return(&domain.Balance{
					ID:             3,
					UserID:         3,
					CurrentBalance: 10,
					DepositedTotal: 10,
				}, nil)
			},
			expected: &domain.Balance{
				ID:             3,
				UserID:         3,
				CurrentBalance: 10,
				DepositedTotal: 10,
			},
			expectedError: nil,
		},
		{
			name:   "Repository error",
			userID: 4,
			prepare: func(repo *MockBalanceRepo, c *cache.MemoryCache) {
				repo.EXPECT().GetUserBalance(context.Background(), 4).Return(nil, errors.New("database error"))
			},
			expected:      nil,
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, memCache := NewMock(t)
			tt.prepare(repo, memCache)

			balance, err := service.GetBalance(context.Background(), tt.userID)
			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
				assert.Nil(t, balance)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, balance)

			// a successful repo read must be served from cache afterwards
			cached, ok := memCache.Get(context.Background(), CacheKey(tt.userID))
			assert.True(t, ok)
			assert.NotEmpty(t, cached)
		})
	}
}

func TestCreateBalance(t *testing.T) {
	tests := []struct {
		name          string
		userID        int
		prepare       func(repo *MockBalanceRepo)
		expected      *domain.Balance
		expectedError error
	}{
		{
			name:   "Balance created",
			userID: 1,
			prepare: func(repo *MockBalanceRepo) {
				repo.EXPECT().CreateUserBalance(context.Background(), 1).Return(&domain.Balance{
					ID:     1,
					UserID: 1,
				}, nil)
			},
			expected: &domain.Balance{
				ID:     1,
				UserID: 1,
			},
			expectedError: nil,
		},
		{
			name:   "Repository error",
			userID: 1,
			prepare: func(repo *MockBalanceRepo) {
				repo.EXPECT().CreateUserBalance(context.Background(), 1).Return(nil, errors.New("database error"))
			},
			expected:      nil,
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _ := NewMock(t)
			tt.prepare(repo)

			balance, err := service.CreateBalance(context.Background(), tt.userID)
			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, balance)
		})
	}
}
