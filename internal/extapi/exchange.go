package extapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "carfleet/internal/errors"
)

// RateQuote is one exchange-rate fetch. Raw keeps the untouched upstream
// payload for audit storage alongside the parsed rates.
type RateQuote struct {
	Base  string
	Rates map[string]float64
	Raw   []byte
}

// ExchangeRatesClient fetches current currency rates for a base currency.
type ExchangeRatesClient interface {
	Latest(ctx context.Context, base string) (*RateQuote, error)
}

type exchangeRatesClient struct {
	baseURL string
	client  *http.Client
}

// NewExchangeRatesClient creates a client for an exchangerate-api style
// endpoint: GET {baseURL}/{base} returns {"base": ..., "rates": {...}}.
func NewExchangeRatesClient(baseURL string) ExchangeRatesClient {
	return &exchangeRatesClient{
		baseURL: baseURL,
		client:  newHTTPClient(),
	}
}

func (c *exchangeRatesClient) Latest(ctx context.Context, base string) (*RateQuote, error) {
	body, err := get(ctx, c.client, c.baseURL+"/"+base, nil)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode rates: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	if len(parsed.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty rates payload", apperrors.ErrUpstreamUnavailable)
	}

	return &RateQuote{
		Base:  parsed.Base,
		Rates: parsed.Rates,
		Raw:   body,
	}, nil
}
