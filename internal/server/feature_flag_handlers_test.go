package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFeatureFlags(t *testing.T) {
	cfg := testConfig()
	cfg.FeatureFlags = "signup=on,live_feed=off"
	_, app := newTestServer(t, cfg, false)

	resp := doRequest(t, app, http.MethodGet, "/api/feature-flags", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[struct {
		Evaluated map[string]bool `json:"evaluated"`
	}](t, resp)
	assert.True(t, body.Evaluated["signup"])
	assert.False(t, body.Evaluated["live_feed"])
}

func TestLiveFeedRoutes_HiddenWhenFlagOff(t *testing.T) {
	cfg := testConfig()
	cfg.FeatureFlags = "live_feed=off"
	_, app := newTestServer(t, cfg, false)

	for _, path := range []string{"/api/feed/recent", "/api/ws/feed"} {
		resp := doRequest(t, app, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestFeedWebsocket_RequiresUpgrade(t *testing.T) {
	_, app := newTestServer(t, testConfig(), false)

	resp := doRequest(t, app, http.MethodGet, "/api/ws/feed", nil, "")
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestGetRecentEvents_Filters(t *testing.T) {
	s, app := newTestServer(t, testConfig(), false)
	createUser(t, s, "leo")

	tests := []struct {
		query string
		want  int
	}{
		{"", http.StatusOK},
		{"?author=leo", http.StatusOK},
		{"?author=ghost", http.StatusNotFound},
		{"?group=nothing", http.StatusNotFound},
		{"?group=cats&author=leo", http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := doRequest(t, app, http.MethodGet, "/api/feed/recent"+tt.query, nil, "")
		assert.Equal(t, tt.want, resp.StatusCode, tt.query)
	}
}
