package routing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
)

var (
	testStart = datastructure.NewCoordinate(34.0522, -118.2437)
	testEnd   = datastructure.NewCoordinate(36.1699, -115.1398)
)

const geoJSONBody = `{
	"type": "FeatureCollection",
	"features": [{
		"geometry": {
			"type": "LineString",
			"coordinates": [[-118.2437, 34.0522], [-117.0, 35.0], [-115.1398, 36.1699]]
		},
		"properties": {
			"segments": [{"distance": 435000.0}]
		}
	}]
}`

func TestDirectionsGeoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/directions/driving-car", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("api_key"))
		fmt.Fprint(w, geoJSONBody)
	}))
	defer srv.Close()

	c := NewORSClient(srv.URL, "test-key")
	route, err := c.Directions(context.Background(), testStart, testEnd)
	require.NoError(t, err)

	assert.Len(t, route.Geometry, 3)
	assert.InDelta(t, 34.0522, route.Geometry[0].Lat, 1e-6)
	assert.InDelta(t, -118.2437, route.Geometry[0].Lon, 1e-6)
	assert.InDelta(t, 435000.0, route.DistanceMeters, 1e-6)
}

func TestDirectionsEncodedPolyline(t *testing.T) {
	encoded := string(polyline.EncodeCoords([][]float64{
		{34.0522, -118.2437},
		{35.0, -117.0},
		{36.1699, -115.1398},
	}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"routes": [{"geometry": %q, "summary": {"distance": 435000.0}}]}`, encoded)
	}))
	defer srv.Close()

	c := NewORSClient(srv.URL, "test-key")
	route, err := c.Directions(context.Background(), testStart, testEnd)
	require.NoError(t, err)

	require.Len(t, route.Geometry, 3)
	assert.InDelta(t, 34.0522, route.Geometry[0].Lat, 1e-5)
	assert.InDelta(t, -118.2437, route.Geometry[0].Lon, 1e-5)
	assert.InDelta(t, 435000.0, route.DistanceMeters, 1e-6)
}

func TestDirectionsMissingAPIKey(t *testing.T) {
	c := NewORSClient("http://unused", "")
	_, err := c.Directions(context.Background(), testStart, testEnd)
	assert.Error(t, err)
}

func TestDirectionsErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"message": "quota exceeded"}}`)
	}))
	defer srv.Close()

	c := NewORSClient(srv.URL, "test-key")
	_, err := c.Directions(context.Background(), testStart, testEnd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestDirectionsRetriesOn503(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, geoJSONBody)
	}))
	defer srv.Close()

	c := NewORSClient(srv.URL, "test-key")
	_, err := c.Directions(context.Background(), testStart, testEnd)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestStraightLineRouter(t *testing.T) {
	r := NewStraightLineRouter()
	route, err := r.Directions(context.Background(), testStart, testEnd)
	require.NoError(t, err)

	// LA to Las Vegas is roughly 368 km as the crow flies
	assert.InDelta(t, 368000, route.DistanceMeters, 5000)
	// a vertex every ~10 km
	assert.Greater(t, len(route.Geometry), 30)
	assert.Equal(t, testStart, route.Geometry[0])
	assert.Equal(t, testEnd, route.Geometry[len(route.Geometry)-1])
}

func TestStraightLineRouterDegenerate(t *testing.T) {
	r := NewStraightLineRouter()
	route, err := r.Directions(context.Background(), testStart, testStart)
	require.NoError(t, err)
	assert.Len(t, route.Geometry, 2)
	assert.InDelta(t, 0, route.DistanceMeters, 1e-6)
}
