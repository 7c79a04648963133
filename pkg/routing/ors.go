package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/DivinerX/fuelrouterx/pkg/geo"
	"github.com/twpayne/go-polyline"
)

const DefaultBaseURL = "https://api.openrouteservice.org"

var ErrNoRoute = errors.New("no route found")

// Route is a driving route between two coordinates.
type Route struct {
	Geometry       []datastructure.Coordinate
	DistanceMeters float64
}

// Router produces a driving route between two points.
type Router interface {
	Directions(ctx context.Context, start, end datastructure.Coordinate) (*Route, error)
}

// ORSClient calls the OpenRouteService directions API. Depending on account
// settings the API answers either in GeoJSON or with an encoded polyline,
// both shapes are handled.
type ORSClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewORSClient(baseURL, apiKey string) *ORSClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ORSClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type orsResponse struct {
	Type     string `json:"type"`
	Features []struct {
		Geometry struct {
			Type        string      `json:"type"`
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Segments []struct {
				Distance float64 `json:"distance"`
			} `json:"segments"`
			Summary struct {
				Distance float64 `json:"distance"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
	Routes []struct {
		Geometry json.RawMessage `json:"geometry"`
		Summary  struct {
			Distance float64 `json:"distance"`
		} `json:"summary"`
	} `json:"routes"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *ORSClient) Directions(ctx context.Context, start, end datastructure.Coordinate) (*Route, error) {
	if c.apiKey == "" {
		return nil, errors.New("openrouteservice api key not configured")
	}

	body, err := json.Marshal(map[string]interface{}{
		"coordinates": [][]float64{
			{start.Lon, start.Lat},
			{end.Lon, end.Lat},
		},
		"format": "geojson",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := c.baseURL + "/v2/directions/driving-car?api_key=" + c.apiKey
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("execute directions request: %w", err)
	}
	defer resp.Body.Close()

	var decoded orsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	if decoded.Type == "FeatureCollection" && len(decoded.Features) > 0 {
		return routeFromGeoJSON(decoded)
	}
	if len(decoded.Routes) > 0 {
		return routeFromEncoded(decoded)
	}
	return nil, ErrNoRoute
}

func routeFromGeoJSON(decoded orsResponse) (*Route, error) {
	feature := decoded.Features[0]
	if feature.Geometry.Type != "LineString" {
		return nil, ErrNoRoute
	}

	geometry := lonLatPairsToCoordinates(feature.Geometry.Coordinates)

	distance := 0.0
	switch {
	case len(feature.Properties.Segments) > 0:
		for _, seg := range feature.Properties.Segments {
			distance += seg.Distance
		}
	case feature.Properties.Summary.Distance > 0:
		distance = feature.Properties.Summary.Distance
	default:
		distance = geo.RouteDistanceKm(geometry, len(geometry)-1) * 1000
	}

	return &Route{Geometry: geometry, DistanceMeters: distance}, nil
}

func routeFromEncoded(decoded orsResponse) (*Route, error) {
	route := decoded.Routes[0]

	var geometry []datastructure.Coordinate
	var encoded string
	if err := json.Unmarshal(route.Geometry, &encoded); err == nil {
		coords, _, err := polyline.DecodeCoords([]byte(encoded))
		if err != nil {
			return nil, fmt.Errorf("decode polyline: %w", err)
		}
		geometry = make([]datastructure.Coordinate, 0, len(coords))
		for _, c := range coords {
			geometry = append(geometry, datastructure.NewCoordinate(c[0], c[1]))
		}
	} else {
		var obj struct {
			Coordinates [][]float64 `json:"coordinates"`
		}
		if err := json.Unmarshal(route.Geometry, &obj); err != nil {
			return nil, fmt.Errorf("unexpected geometry shape: %w", err)
		}
		geometry = lonLatPairsToCoordinates(obj.Coordinates)
	}

	if len(geometry) < 2 {
		return nil, ErrNoRoute
	}

	distance := route.Summary.Distance
	if distance == 0 {
		distance = geo.RouteDistanceKm(geometry, len(geometry)-1) * 1000
	}
	return &Route{Geometry: geometry, DistanceMeters: distance}, nil
}

func lonLatPairsToCoordinates(pairs [][]float64) []datastructure.Coordinate {
	out := make([]datastructure.Coordinate, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) < 2 {
			continue
		}
		out = append(out, datastructure.NewCoordinate(pair[1], pair[0]))
	}
	return out
}

type httpStatusError struct {
	Code    int
	Message string
}

func (e *httpStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("routing failed (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("routing failed: status %d", e.Code)
}

// doWithRetry retries transient failures (network errors, 429, 5xx) with
// exponential backoff while respecting context cancellation.
func (c *ORSClient) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, lastErr
}

func (c *ORSClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		statusErr := &httpStatusError{Code: resp.StatusCode}
		var decoded orsResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err == nil {
			statusErr.Message = decoded.Error.Message
		}
		return nil, statusErr
	}
	return resp, nil
}
