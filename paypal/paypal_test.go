package paypal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		BaseURL:      srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
		HTTPClient:   srv.Client(),
	}
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			assert.NotEmpty(t, r.Header.Get("Authorization"))
			w.Write([]byte(`{"access_token":"tok"}`))
		case "/v2/checkout/orders":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.Write([]byte(`{"id":"ORDER-1","links":[
				{"rel":"self","href":"https://example.com/self"},
				{"rel":"approve","href":"https://example.com/approve"}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	order, err := newTestClient(srv).CreateOrder(OrderArgs{
		Amount:       49.5,
		ProjectTitle: "Flood Relief",
		ReturnURL:    "https://client/return",
		CancelURL:    "https://client/cancel",
	})
	require.NoError(t, err)

	assert.Equal(t, "ORDER-1", order.OrderID)
	assert.Equal(t, "https://example.com/approve", order.ApproveURL)
}

func TestCreateOrderCarriesCurrencyAndURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			w.Write([]byte(`{"access_token":"tok"}`))
		case "/v2/checkout/orders":
			var payload struct {
				PurchaseUnits []struct {
					Amount struct {
						CurrencyCode string `json:"currency_code"`
						Value        string `json:"value"`
					} `json:"amount"`
				} `json:"purchase_units"`
				ApplicationContext struct {
					ReturnURL string `json:"return_url"`
					CancelURL string `json:"cancel_url"`
				} `json:"application_context"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Len(t, payload.PurchaseUnits, 1)
			assert.Equal(t, "PKR", payload.PurchaseUnits[0].Amount.CurrencyCode)
			assert.Equal(t, "1500.00", payload.PurchaseUnits[0].Amount.Value)
			assert.Equal(t, "https://app.example/return", payload.ApplicationContext.ReturnURL)
			assert.Equal(t, "https://app.example/cancel", payload.ApplicationContext.CancelURL)
			w.Write([]byte(`{"id":"ORDER-2","links":[{"rel":"approve","href":"https://example.com/approve"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CreateOrder(OrderArgs{
		Amount:    1500,
		Currency:  "PKR",
		ReturnURL: "https://app.example/return",
		CancelURL: "https://app.example/cancel",
	})
	require.NoError(t, err)
}

func TestCreateOrderDefaultsToUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			w.Write([]byte(`{"access_token":"tok"}`))
			return
		}
		var payload struct {
			PurchaseUnits []struct {
				Amount struct {
					CurrencyCode string `json:"currency_code"`
				} `json:"amount"`
			} `json:"purchase_units"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.PurchaseUnits, 1)
		assert.Equal(t, "USD", payload.PurchaseUnits[0].Amount.CurrencyCode)
		w.Write([]byte(`{"id":"ORDER-3","links":[{"rel":"approve","href":"https://example.com/approve"}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CreateOrder(OrderArgs{Amount: 10})
	require.NoError(t, err)
}

func TestCaptureOrderFromCaptures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			w.Write([]byte(`{"access_token":"tok"}`))
		case "/v2/checkout/orders/ORDER-1/capture":
			w.Write([]byte(`{"purchase_units":[{"payments":{"captures":[{"id":"CAP-1"}]}}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	capture, err := newTestClient(srv).CaptureOrder("ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, "CAP-1", capture.CaptureID)
}

func TestCaptureOrderFallsBackToAuthorizations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			w.Write([]byte(`{"access_token":"tok"}`))
		default:
			w.Write([]byte(`{"purchase_units":[{"payments":{"authorizations":[{"id":"AUTH-1"}]}}]}`))
		}
	}))
	defer srv.Close()

	capture, err := newTestClient(srv).CaptureOrder("ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, "AUTH-1", capture.CaptureID)
}

func TestCreateOrderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			w.Write([]byte(`{"access_token":"tok"}`))
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"INVALID_REQUEST"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CreateOrder(OrderArgs{Amount: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestMissingCredentials(t *testing.T) {
	c := &Client{BaseURL: "http://localhost", HTTPClient: http.DefaultClient}
	_, err := c.CreateOrder(OrderArgs{Amount: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestNewClientModes(t *testing.T) {
	assert.Equal(t, sandboxBaseURL, NewClient("sandbox", "a", "b").BaseURL)
	assert.Equal(t, liveBaseURL, NewClient("live", "a", "b").BaseURL)
}
