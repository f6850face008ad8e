package paypal

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/nmoskalenko/walletgate/internal/config"
	"github.com/nmoskalenko/walletgate/pkg/clients"
)

const tokenBody = `{"access_token":"test-token","expires_in":3600}`

func NewMock(t *testing.T) (*Client, *clients.MockHTTPClientI) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := clients.NewMockHTTPClientI(ctrl)
	cfg := &config.Config{
		PayPalAddress:  "https://api-m.test.paypal.com",
		PayPalClientID: "client-id",
		PayPalSecret:   "secret",
	}
	return New(cfg, client), client
}

func expectToken(client *clients.MockHTTPClientI) {
	client.EXPECT().
		Post("https://api-m.test.paypal.com/v1/oauth2/token", gomock.Any(), gomock.Any()).
		Return(http.StatusOK, []byte(tokenBody), nil)
}

func TestClient_CreateOrder(t *testing.T) {
	tests := []struct {
		name        string
		prepareMock func(client *clients.MockHTTPClientI)
		amount      float64
		expectedID  string
		expectErr   bool
	}{
		{
			name: "Successful order creation",
			prepareMock: func(client *clients.MockHTTPClientI) {
				expectToken(client)
				client.EXPECT().
					Post("https://api-m.test.paypal.com/v2/checkout/orders", gomock.Any(), gomock.Any()).
					Return(http.StatusCreated, []byte(`{"id":"ORDER-1"}`), nil)
			},
			amount:     100,
			expectedID: "ORDER-1",
		},
		{
			name: "Provider rejects order",
			prepareMock: func(client *clients.MockHTTPClientI) {
				expectToken(client)
				client.EXPECT().
					Post("https://api-m.test.paypal.com/v2/checkout/orders", gomock.Any(), gomock.Any()).
					Return(http.StatusUnprocessableEntity, []byte(`{"message":"INVALID_CURRENCY_CODE"}`), nil)
			},
			amount:    100,
			expectErr: true,
		},
		{
			name: "Token endpoint failure",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().
					Post("https://api-m.test.paypal.com/v1/oauth2/token", gomock.Any(), gomock.Any()).
					Return(0, nil, errors.New("connection refused"))
			},
			amount:    100,
			expectErr: true,
		},
		{
			name: "Empty order id in response",
			prepareMock: func(client *clients.MockHTTPClientI) {
				expectToken(client)
				client.EXPECT().
					Post("https://api-m.test.paypal.com/v2/checkout/orders", gomock.Any(), gomock.Any()).
					Return(http.StatusCreated, []byte(`{}`), nil)
			},
			amount:    100,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, client := NewMock(t)
			tt.prepareMock(client)

			orderID, err := c.CreateOrder(tt.amount, "USD")

			if tt.expectErr {
				assert.Error(t, err)
				assert.Empty(t, orderID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, orderID)
			}
		})
	}
}

func TestClient_CaptureOrder(t *testing.T) {
	completedBody := `{
		"id": "ORDER-1",
		"status": "COMPLETED",
		"purchase_units": [{"payments": {"captures": [{"amount": {"currency_code": "USD", "value": "100.00"}}]}}]
	}`

	tests := []struct {
		name        string
		prepareMock func(client *clients.MockHTTPClientI)
		expected    CaptureOutcome
		expectErr   bool
	}{
		{
			name: "Completed capture",
			prepareMock: func(client *clients.MockHTTPClientI) {
				expectToken(client)
				client.EXPECT().
					Post("https://api-m.test.paypal.com/v2/checkout/orders/ORDER-1/capture", gomock.Any(), gomock.Any()).
					Return(http.StatusCreated, []byte(completedBody), nil)
			},
			expected: Completed{CapturedAmount: 100, Raw: []byte(completedBody)},
		},
		{
			name: "Declined capture",
			prepareMock: func(client *clients.MockHTTPClientI) {
				expectToken(client)
				client.EXPECT().
					Post("https://api-m.test.paypal.com/v2/checkout/orders/ORDER-1/capture", gomock.Any(), gomock.Any()).
					Return(http.StatusOK, []byte(`{"id":"ORDER-1","status":"DECLINED"}`), nil)
			},
			expected: Denied{Status: "DECLINED", Raw: []byte(`{"id":"ORDER-1","status":"DECLINED"}`)},
		},
		{
			name: "Provider API error",
			prepareMock: func(client *clients.MockHTTPClientI) {
				expectToken(client)
				client.EXPECT().
					Post("https://api-m.test.paypal.com/v2/checkout/orders/ORDER-1/capture", gomock.Any(), gomock.Any()).
					Return(http.StatusNotFound, []byte(`{"message":"RESOURCE_NOT_FOUND"}`), nil)
			},
			expectErr: true,
		},
		{
			name: "Completed without captured amount",
			prepareMock: func(client *clients.MockHTTPClientI) {
				expectToken(client)
				client.EXPECT().
					Post("https://api-m.test.paypal.com/v2/checkout/orders/ORDER-1/capture", gomock.Any(), gomock.Any()).
					Return(http.StatusOK, []byte(`{"id":"ORDER-1","status":"COMPLETED"}`), nil)
			},
			expectErr: true,
		},
		{
			name: "Transport error",
			prepareMock: func(client *clients.MockHTTPClientI) {
				expectToken(client)
				client.EXPECT().
					Post("https://api-m.test.paypal.com/v2/checkout/orders/ORDER-1/capture", gomock.Any(), gomock.Any()).
					Return(0, nil, errors.New("connection reset"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, client := NewMock(t)
			tt.prepareMock(client)

			outcome, err := c.CaptureOrder("ORDER-1")

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, outcome)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, outcome)
			}
		})
	}
}

func TestClient_tokenCaching(t *testing.T) {
	c, client := NewMock(t)

	// One token exchange serves both calls.
	expectToken(client)
	client.EXPECT().
		Post("https://api-m.test.paypal.com/v2/checkout/orders", gomock.Any(), gomock.Any()).
		Return(http.StatusCreated, []byte(`{"id":"ORDER-1"}`), nil).
		Times(2)

	_, err := c.CreateOrder(50, "USD")
	assert.NoError(t, err)
	_, err = c.CreateOrder(60, "USD")
	assert.NoError(t, err)
}
