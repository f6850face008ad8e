package paypal

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nmoskalenko/walletgate/internal/config"
	"github.com/nmoskalenko/walletgate/pkg/clients"
)

// tokenSlack renews the cached OAuth token this long before it expires.
const tokenSlack = time.Minute

var (
	ErrOrderCreateFailed = errors.New("provider order creation failed")
	ErrCaptureFailed     = errors.New("provider capture failed")
)

type Client struct {
	url      string
	clientID string
	secret   string
	client   clients.HTTPClientI

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func New(cfg *config.Config, client clients.HTTPClientI) *Client {
	return &Client{
		url:      cfg.PayPalAddress,
		clientID: cfg.PayPalClientID,
		secret:   cfg.PayPalSecret,
		client:   client,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// token exchanges client credentials for a bearer token, reusing the
// cached one until shortly before expiry.
func (c *Client) token() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenSlack)) {
		return c.accessToken, nil
	}

	headers := http.Header{}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.secret))
	headers.Set("Authorization", "Basic "+basic)
	headers.Set("Content-Type", "application/x-www-form-urlencoded")

	body := url.Values{"grant_type": {"client_credentials"}}.Encode()
	statusCode, respBody, err := c.client.Post(c.url+"/v1/oauth2/token", headers, []byte(body))
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	if statusCode != http.StatusOK {
		zap.L().Error("token endpoint returned non-OK", zap.Int("status", statusCode))
		return "", fmt.Errorf("token endpoint returned status %d", statusCode)
	}

	var token tokenResponse
	if err := json.Unmarshal(respBody, &token); err != nil {
		return "", fmt.Errorf("can't parse token response: %w", err)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

func (c *Client) authHeaders() (http.Header, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+token)
	headers.Set("Content-Type", "application/json")
	return headers, nil
}

type orderAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	Amount orderAmount `json:"amount"`
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type createOrderResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// CreateOrder registers a capture-intent order for the amount and returns
// the provider's order id.
func (c *Client) CreateOrder(amount float64, currency string) (string, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return "", err
	}

	reqBody, err := json.Marshal(createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			Amount: orderAmount{
				CurrencyCode: currency,
				Value:        strconv.FormatFloat(amount, 'f', 2, 64),
			},
		}},
	})
	if err != nil {
		return "", err
	}

	statusCode, respBody, err := c.client.Post(c.url+"/v2/checkout/orders", headers, reqBody)
	if err != nil {
		return "", fmt.Errorf("order request failed: %w", err)
	}

	var order createOrderResponse
	if err := json.Unmarshal(respBody, &order); err != nil {
		return "", fmt.Errorf("can't parse order response: %w", err)
	}

	if statusCode != http.StatusOK && statusCode != http.StatusCreated {
		zap.L().Error("order creation returned non-OK",
			zap.Int("status", statusCode),
			zap.String("message", order.Message),
		)
		if order.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrOrderCreateFailed, order.Message)
		}
		return "", ErrOrderCreateFailed
	}
	if order.ID == "" {
		return "", fmt.Errorf("%w: empty order id", ErrOrderCreateFailed)
	}

	return order.ID, nil
}

type captureResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				Amount orderAmount `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CaptureOrder asks the provider to move the authorized funds and
// translates the loosely-typed response into a CaptureOutcome at the
// boundary.
func (c *Client) CaptureOrder(orderID string) (CaptureOutcome, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}

	statusCode, respBody, err := c.client.Post(c.url+"/v2/checkout/orders/"+orderID+"/capture", headers, nil)
	if err != nil {
		return nil, fmt.Errorf("capture request failed: %w", err)
	}

	var capture captureResponse
	if err := json.Unmarshal(respBody, &capture); err != nil {
		return nil, fmt.Errorf("can't parse capture response: %w", err)
	}

	if statusCode != http.StatusOK && statusCode != http.StatusCreated {
		zap.L().Error("capture returned non-OK",
			zap.Int("status", statusCode),
			zap.String("orderID", orderID),
			zap.String("message", capture.Message),
		)
		if capture.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrCaptureFailed, capture.Message)
		}
		return nil, ErrCaptureFailed
	}

	if capture.Status != "COMPLETED" {
		return Denied{Status: capture.Status, Raw: respBody}, nil
	}

	var captured float64
	for _, unit := range capture.PurchaseUnits {
		for _, cap := range unit.Payments.Captures {
			value, err := strconv.ParseFloat(cap.Amount.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("can't parse captured amount %q: %w", cap.Amount.Value, err)
			}
			captured += value
		}
	}
	if captured == 0 {
		return nil, fmt.Errorf("%w: completed capture reported no amount", ErrCaptureFailed)
	}

	return Completed{CapturedAmount: captured, Raw: respBody}, nil
}
