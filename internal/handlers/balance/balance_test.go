package balance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/nmoskalenko/walletgate/internal/domain"
	"github.com/nmoskalenko/walletgate/internal/dto"
	"github.com/nmoskalenko/walletgate/pkg/auth"
	"github.com/nmoskalenko/walletgate/pkg/utils"
)

func NewMock(t *testing.T) (*BalanceHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func TestGetBalanceHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func()
		expectedCode  int
		expectedBody  *dto.BalanceResponseDTO
		expectedError string
	}{
		{
			name: "Balance returned",
			prepareMock: func() {
				service.EXPECT().
					GetBalance(gomock.Any(), 1).
					Return(&domain.Balance{
						ID:             1,
						UserID:         1,
						CurrentBalance: 500.5,
						DepositedTotal: 1200.0,
					}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: &dto.BalanceResponseDTO{
				Current:   500.5,
				Deposited: 1200.0,
			},
		},
		{
			name: "Balance not found",
			prepareMock: func() {
				service.EXPECT().
					GetBalance(gomock.Any(), 1).
					Return(nil, nil)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "Balance not found",
		},
		{
			name: "Service error",
			prepareMock: func() {
				service.EXPECT().
					GetBalance(gomock.Any(), 1).
					Return(nil, errors.New("database error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("GET", "/api/user/balance", nil)
			ctx := context.WithValue(req.Context(), auth.UserIDKey, 1)
			req = req.WithContext(ctx)
			rr := httptest.NewRecorder()

			handler.GetBalance(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Message)
			} else {
				var resp dto.BalanceResponseDTO
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, *tt.expectedBody, resp)
			}
		})
	}
}
