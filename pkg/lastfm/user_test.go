package lastfm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

// fakeAPI serves fixtures keyed by API method and records the queries it
// receives.
type fakeAPI struct {
	mu        sync.Mutex
	responses map[string]string
	queries   []url.Values
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	body, ok := f.responses[q.Get("method")]
	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": 3, "message": "Invalid Method - No method with that name in this package"}`))
		return
	}
	_, _ = w.Write([]byte(body))
}

func (f *fakeAPI) last(t *testing.T) url.Values {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		t.Fatal("expected a request")
	}
	return f.queries[len(f.queries)-1]
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func newFakeAPI(t *testing.T) (*fakeAPI, *UserService) {
	t.Helper()
	api := &fakeAPI{responses: map[string]string{
		"user.getInfo":         userInfoJSON,
		"user.getRecentTracks": recentTracksJSON,
		"user.getFriends":      friendsJSON,
		"user.getLovedTracks":  lovedTracksJSON,
		"user.getTopAlbums":    topAlbumsJSON,
		"user.getTopArtists":   topArtistsJSON,
		"user.getTopTracks":    topTracksJSON,
	}}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return api, newTestClient(t, server, Config{}).User()
}

func TestUserService_GetInfo(t *testing.T) {
	api, users := newFakeAPI(t)

	user, err := users.GetInfo(context.Background(), "rj")
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	if user.Name != "rj" {
		t.Errorf("expected name rj, got %q", user.Name)
	}

	q := api.last(t)
	if q.Get("method") != "user.getInfo" || q.Get("user") != "rj" {
		t.Errorf("unexpected query %v", q)
	}
}

func TestUserService_GetRecentTracks(t *testing.T) {
	api, users := newFakeAPI(t)

	from := time.Unix(1612000000, 0)
	to := time.Unix(1612200000, 0)
	page, err := users.GetRecentTracks(context.Background(), "rj", &RecentTracksOptions{
		PageOptions: PageOptions{Limit: 2, Page: 1},
		From:        from,
		To:          to,
		Extended:    true,
	})
	if err != nil {
		t.Fatalf("GetRecentTracks failed: %v", err)
	}
	if page.Len() != 2 {
		t.Errorf("expected 2 tracks, got %d", page.Len())
	}

	q := api.last(t)
	want := map[string]string{
		"user":     "rj",
		"limit":    "2",
		"page":     "1",
		"from":     "1612000000",
		"to":       "1612200000",
		"extended": "1",
	}
	for k, v := range want {
		if q.Get(k) != v {
			t.Errorf("expected %s=%q, got %q", k, v, q.Get(k))
		}
	}
}

func TestUserService_GetRecentTracksNoOptions(t *testing.T) {
	api, users := newFakeAPI(t)

	if _, err := users.GetRecentTracks(context.Background(), "rj", nil); err != nil {
		t.Fatalf("GetRecentTracks failed: %v", err)
	}
	q := api.last(t)
	for _, k := range []string{"limit", "page", "from", "to", "extended"} {
		if q.Has(k) {
			t.Errorf("expected %s to be omitted, got %q", k, q.Get(k))
		}
	}
}

func TestUserService_FriendsAndLoved(t *testing.T) {
	api, users := newFakeAPI(t)

	friends, err := users.GetFriends(context.Background(), "rj", &FriendsOptions{RecentTracks: true})
	if err != nil {
		t.Fatalf("GetFriends failed: %v", err)
	}
	if friends.Len() != 1 {
		t.Errorf("expected 1 friend, got %d", friends.Len())
	}
	if got := api.last(t).Get("recenttracks"); got != "1" {
		t.Errorf("expected recenttracks=1, got %q", got)
	}

	loved, err := users.GetLovedTracks(context.Background(), "rj", &PageOptions{Limit: 10})
	if err != nil {
		t.Fatalf("GetLovedTracks failed: %v", err)
	}
	if loved.Len() != 1 {
		t.Errorf("expected 1 loved track, got %d", loved.Len())
	}
	if got := api.last(t).Get("limit"); got != "10" {
		t.Errorf("expected limit=10, got %q", got)
	}
}

func TestUserService_TopCharts(t *testing.T) {
	api, users := newFakeAPI(t)
	ctx := context.Background()
	opts := &TopOptions{Period: Period7Day}

	albums, err := users.GetTopAlbums(ctx, "rj", opts)
	if err != nil {
		t.Fatalf("GetTopAlbums failed: %v", err)
	}
	if albums.Items[0].Name != "Kid A" {
		t.Errorf("unexpected top album %q", albums.Items[0].Name)
	}
	if got := api.last(t).Get("period"); got != "7day" {
		t.Errorf("expected period=7day, got %q", got)
	}

	artists, err := users.GetTopArtists(ctx, "rj", nil)
	if err != nil {
		t.Fatalf("GetTopArtists failed: %v", err)
	}
	if artists.Items[0].Name != "Autechre" {
		t.Errorf("unexpected top artist %q", artists.Items[0].Name)
	}
	if api.last(t).Has("period") {
		t.Error("expected period to be omitted without options")
	}

	tracks, err := users.GetTopTracks(ctx, "rj", opts)
	if err != nil {
		t.Fatalf("GetTopTracks failed: %v", err)
	}
	if tracks.Items[0].Name != "Archangel" {
		t.Errorf("unexpected top track %q", tracks.Items[0].Name)
	}
}

// TestUserService_InvalidArguments tests that bad arguments are rejected
// before any request is sent.
func TestUserService_InvalidArguments(t *testing.T) {
	api, users := newFakeAPI(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{
			name: "empty user",
			call: func() error { _, err := users.GetInfo(ctx, ""); return err },
		},
		{
			name: "unknown period",
			call: func() error {
				_, err := users.GetTopArtists(ctx, "rj", &TopOptions{Period: "fortnight"})
				return err
			},
		},
		{
			name: "negative limit",
			call: func() error {
				_, err := users.GetLovedTracks(ctx, "rj", &PageOptions{Limit: -1})
				return err
			},
		},
		{
			name: "to before from",
			call: func() error {
				_, err := users.GetRecentTracks(ctx, "rj", &RecentTracksOptions{
					From: time.Unix(200, 0),
					To:   time.Unix(100, 0),
				})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}

	if n := api.count(); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestPeriod_Valid(t *testing.T) {
	for _, p := range []Period{"", PeriodOverall, Period7Day, Period1Month, Period3Month, Period6Month, Period12Month} {
		if !p.Valid() {
			t.Errorf("expected %q to be valid", p)
		}
	}
	for _, p := range []Period{"7days", "week", "OVERALL"} {
		if p.Valid() {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestUserService_NonObjectPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	users := newTestClient(t, server, Config{}).User()

	_, err := users.GetInfo(context.Background(), "rj")
	var lastfmErr *Error
	if !errors.As(err, &lastfmErr) || !lastfmErr.Unexpected() {
		t.Errorf("expected unexpected-response error, got %v", err)
	}
}

func TestUserService_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": 8, "message": "Operation failed"}`))
	}))
	defer server.Close()

	users := newTestClient(t, server, Config{}).User()

	_, err := users.GetRecentTracks(context.Background(), "rj", nil)
	if !errors.Is(err, ErrOperationFailed) {
		t.Errorf("expected ErrOperationFailed, got %v", err)
	}
}

func TestUserService_MissingResource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"something": {}}`))
	}))
	defer server.Close()

	users := newTestClient(t, server, Config{}).User()

	_, err := users.GetInfo(context.Background(), "rj")
	var missing *MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "user" {
		t.Errorf("expected missing user field, got %v", err)
	}
}
