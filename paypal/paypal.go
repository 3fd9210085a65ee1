// Package paypal wraps the three checkout calls the platform makes:
// client-credentials token, order creation and order capture. The
// client is stateless; the access token is fetched fresh per call and
// never cached. Any non-2xx response is a hard failure carrying the
// upstream status and body. There is no retry and no webhook handling:
// capture is caller-initiated only.
package paypal

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	sandboxBaseURL = "https://api-m.sandbox.paypal.com"
	liveBaseURL    = "https://api-m.paypal.com"
)

type Client struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

// NewClient builds a client for the given mode ("sandbox" or "live").
func NewClient(mode, clientID, clientSecret string) *Client {
	base := sandboxBaseURL
	if mode == "live" {
		base = liveBaseURL
	}
	return &Client{
		BaseURL:      base,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type OrderArgs struct {
	Amount       float64
	Currency     string
	ProjectTitle string
	ReturnURL    string
	CancelURL    string
}

type Order struct {
	OrderID    string
	ApproveURL string
}

type Capture struct {
	CaptureID string
}

func (c *Client) getAccessToken() (string, error) {
	if c.ClientID == "" || c.ClientSecret == "" {
		return "", fmt.Errorf("paypal is not configured (missing client id/secret)")
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.ClientID + ":" + c.ClientSecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal token error: %d %s", resp.StatusCode, body)
	}

	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("paypal token decode: %w", err)
	}
	return data.AccessToken, nil
}

// CreateOrder opens a CAPTURE-intent order and returns its id plus the
// buyer approval link.
func (c *Client) CreateOrder(args OrderArgs) (*Order, error) {
	token, err := c.getAccessToken()
	if err != nil {
		return nil, err
	}

	currency := args.Currency
	if currency == "" {
		currency = "USD"
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"description": args.ProjectTitle,
				"amount": map[string]string{
					"currency_code": currency,
					"value":         fmt.Sprintf("%.2f", args.Amount),
				},
			},
		},
		"application_context": map[string]string{
			"return_url": args.ReturnURL,
			"cancel_url": args.CancelURL,
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/v2/checkout/orders", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal create order error: %d %s", resp.StatusCode, body)
	}

	var data struct {
		ID    string `json:"id"`
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("paypal create order decode: %w", err)
	}

	order := &Order{OrderID: data.ID}
	for _, l := range data.Links {
		if l.Rel == "approve" {
			order.ApproveURL = l.Href
			break
		}
	}
	return order, nil
}

// CaptureOrder completes a previously approved order. The capture id
// is taken from the captures path, falling back to authorizations for
// accounts configured with delayed capture.
func (c *Client) CaptureOrder(orderID string) (*Capture, error) {
	token, err := c.getAccessToken()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/v2/checkout/orders/"+orderID+"/capture", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal capture error: %d %s", resp.StatusCode, body)
	}

	var data struct {
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID string `json:"id"`
				} `json:"captures"`
				Authorizations []struct {
					ID string `json:"id"`
				} `json:"authorizations"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("paypal capture decode: %w", err)
	}

	capture := &Capture{}
	if len(data.PurchaseUnits) > 0 {
		payments := data.PurchaseUnits[0].Payments
		if len(payments.Captures) > 0 {
			capture.CaptureID = payments.Captures[0].ID
		} else if len(payments.Authorizations) > 0 {
			capture.CaptureID = payments.Authorizations[0].ID
		}
	}
	return capture, nil
}
