package foursquare

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelink/match-engine/internal/places"
	"github.com/venturelink/match-engine/internal/resilience"
)

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key",
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(1000),
		WithRetry(fastRetry()),
	)
}

func TestGeocodeViaAutocomplete(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/autocomplete", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "560001", r.URL.Query().Get("query"))
		assert.Equal(t, "geo", r.URL.Query().Get("types"))
		w.Write([]byte(`{"results":[{"geo":{"name":"Bengaluru, Karnataka","cc":"IN","center":{"latitude":12.9716,"longitude":77.5946}}}]}`))
	})

	got, err := c.Geocode(context.Background(), "560001")
	require.NoError(t, err)
	assert.True(t, got.Matched)
	assert.Equal(t, 12.9716, got.Location.Latitude)
	assert.Equal(t, 77.5946, got.Location.Longitude)
	assert.Equal(t, "Bengaluru", got.Location.City)
	assert.Equal(t, "Karnataka", got.Location.State)
	assert.Equal(t, "IN", got.Location.Country)
	assert.Equal(t, "560001", got.Location.Pincode)
	assert.Equal(t, "test-key", gotAuth)
}

func TestGeocodeTriesWiderQueriesThenSearchFallback(t *testing.T) {
	var queries []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Path+"|"+r.URL.Query().Get("query"))
		if r.URL.Path == "/autocomplete" {
			w.Write([]byte(`{"results":[]}`))
			return
		}
		require.Equal(t, "/places/search", r.URL.Path)
		w.Write([]byte(`{"results":[{"name":"Post Office","geocodes":{"main":{"latitude":18.52,"longitude":73.85}},"location":{"locality":"Pune","region":"Maharashtra","country":"IN"}}]}`))
	})

	got, err := c.Geocode(context.Background(), "411001")
	require.NoError(t, err)
	assert.True(t, got.Matched)
	assert.Equal(t, "Pune", got.Location.City)
	assert.Equal(t, "411001", got.Location.Pincode)

	require.Len(t, queries, 4)
	assert.Equal(t, "/autocomplete|411001", queries[0])
	assert.Equal(t, "/autocomplete|411001 India", queries[1])
	assert.Equal(t, "/autocomplete|postal code 411001", queries[2])
	assert.Equal(t, "/places/search|postal code 411001", queries[3])
}

func TestGeocodeMissIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})

	got, err := c.Geocode(context.Background(), "000000")
	require.NoError(t, err)
	assert.False(t, got.Matched)
}

func TestMissingKeyFailsWithoutCalling(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))

	_, err := c.Geocode(context.Background(), "560001")
	assert.True(t, eris.Is(err, ErrMissingCredential))

	_, err = c.Search(context.Background(), places.SearchRequest{Query: "cafe"})
	assert.True(t, eris.Is(err, ErrMissingCredential))
	assert.False(t, called)
}

func TestSearchByCoordinates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "restaurant", q.Get("query"))
		assert.Equal(t, "12.971600,77.594600", q.Get("ll"))
		assert.Equal(t, "1000", q.Get("radius"))
		assert.Equal(t, "50", q.Get("limit"))
		assert.Empty(t, q.Get("near"))
		w.Write([]byte(`{"results":[
			{"fsq_id":"abc","name":"Dosa Corner","rating":8.4,"popularity":0.91,"distance":240,
			 "categories":[{"name":"Indian Restaurant"},{"name":"Breakfast Spot"}],
			 "location":{"locality":"Bengaluru","postcode":"560001"},
			 "geocodes":{"main":{"latitude":12.97,"longitude":77.59}}},
			{"fsq_id":"def","name":"Chai Point"}
		]}`))
	})

	got, err := c.Search(context.Background(), places.SearchRequest{
		Query: "restaurant", Lat: 12.9716, Lng: 77.5946, RadiusM: 1000,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "abc", got[0].ID)
	assert.Equal(t, "Dosa Corner", got[0].Name)
	assert.Equal(t, "Indian Restaurant", got[0].Category)
	require.NotNil(t, got[0].Rating)
	assert.Equal(t, 8.4, *got[0].Rating)
	require.NotNil(t, got[0].Popularity)
	assert.Equal(t, 0.91, *got[0].Popularity)
	assert.Equal(t, 240, got[0].DistanceM)
	assert.Equal(t, "Bengaluru", got[0].Location.City)

	assert.Empty(t, got[1].Category)
	assert.Nil(t, got[1].Rating)
}

func TestSearchByCityOmitsRadius(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Pune", q.Get("near"))
		assert.Empty(t, q.Get("ll"))
		assert.Empty(t, q.Get("radius"))
		w.Write([]byte(`{"results":[]}`))
	})

	got, err := c.Search(context.Background(), places.SearchRequest{Query: "gym", Near: "Pune", RadiusM: 15000})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchRetriesServerErrors(t *testing.T) {
	var hits int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"results":[{"fsq_id":"abc","name":"Cafe"}]}`))
	})

	got, err := c.Search(context.Background(), places.SearchRequest{Query: "cafe", Lat: 1, Lng: 2, RadiusM: 500})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 3, hits)
}

func TestSearchDoesNotRetryClientErrors(t *testing.T) {
	var hits int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Search(context.Background(), places.SearchRequest{Query: "cafe", Lat: 1, Lng: 2})
	require.Error(t, err)
	assert.Equal(t, 1, hits)
	assert.False(t, resilience.IsTransient(err))
}
