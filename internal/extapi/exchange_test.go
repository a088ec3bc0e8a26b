package extapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "carfleet/internal/errors"
)

func TestExchangeRatesClient_Latest(t *testing.T) {
	payload := `{"base":"USD","rates":{"USD":1,"EUR":0.92,"GBP":0.79}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client := NewExchangeRatesClient(server.URL)
	quote, err := client.Latest(context.Background(), "USD")
	require.NoError(t, err)

	assert.Equal(t, "USD", quote.Base)
	assert.Equal(t, 0.92, quote.Rates["EUR"])
	assert.JSONEq(t, payload, string(quote.Raw))
}

func TestExchangeRatesClient_Latest_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "upstream error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			},
		},
		{
			name: "empty rates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"base":"USD","rates":{}}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewExchangeRatesClient(server.URL)
			quote, err := client.Latest(context.Background(), "USD")
			assert.Nil(t, quote)
			assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
		})
	}
}

func TestExchangeRatesClient_Latest_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewExchangeRatesClient(server.URL)
	_, err := client.Latest(context.Background(), "USD")
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}

func TestStatusError(t *testing.T) {
	err := &StatusError{StatusCode: http.StatusBadGateway, Body: []byte("upstream down")}
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
}
