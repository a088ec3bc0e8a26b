package extapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	apperrors "carfleet/internal/errors"
)

const (
	carSpecsEndpoint = "https://car-specs.p.rapidapi.com/v2/cars"
	carSpecsHost     = "car-specs.p.rapidapi.com"
)

// CarSpecs is the subset of a vehicle-specification lookup the catalog merges
// into its own records. Raw keeps the whole payload for the details page.
type CarSpecs struct {
	FuelType  string `json:"fuelType"`
	BodyType  string `json:"bodyType"`
	DriveType string `json:"driveType"`
	Cylinders string `json:"cylinders"`
	Raw       []byte `json:"-"`
}

// CarSpecsClient looks up manufacturer specifications by make, model and year.
type CarSpecsClient interface {
	Lookup(ctx context.Context, brand, model string, year int) (*CarSpecs, error)
}

type carSpecsClient struct {
	apiKey string
	client *http.Client
}

// NewCarSpecsClient creates a RapidAPI car-specs client.
func NewCarSpecsClient(apiKey string) CarSpecsClient {
	return &carSpecsClient{apiKey: apiKey, client: newHTTPClient()}
}

func (c *carSpecsClient) Lookup(ctx context.Context, brand, model string, year int) (*CarSpecs, error) {
	params := url.Values{}
	params.Set("make", brand)
	params.Set("model", model)
	params.Set("year", strconv.Itoa(year))

	headers := map[string]string{
		"X-RapidAPI-Key":  c.apiKey,
		"X-RapidAPI-Host": carSpecsHost,
	}

	body, err := get(ctx, c.client, carSpecsEndpoint+"?"+params.Encode(), headers)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		FuelType  string `json:"fuelType"`
		BodyType  string `json:"bodyType"`
		DriveType string `json:"driveType"`
		Cylinders string `json:"cylinders"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode car specs: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	return &CarSpecs{
		FuelType:  parsed.FuelType,
		BodyType:  parsed.BodyType,
		DriveType: parsed.DriveType,
		Cylinders: parsed.Cylinders,
		Raw:       body,
	}, nil
}
