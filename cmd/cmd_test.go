package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand runs the root command with args against a fake API and
// an isolated home directory, and returns what it printed.
func executeCommand(t *testing.T, handler http.Handler, args ...string) (string, error) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LASTFM_LASTFM_API_KEY", "test-key")
	t.Setenv("LASTFM_LASTFM_BASE_URL", server.URL)
	t.Setenv("LASTFM_ARCHIVE_PATH", filepath.Join(home, "archive.db"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default so tests do not leak
// flag values into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// fixtureHandler answers every request with body.
func fixtureHandler(t *testing.T, method, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("method"); got != method {
			t.Errorf("expected method %s, got %s", method, got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

const recentTracksBody = `{"recenttracks": {"track": [
	{"artist": {"#text": "Boards of Canada"}, "album": {"#text": "Geogaddi"}, "name": "Dawn Chorus", "url": "u", "@attr": {"nowplaying": "true"}},
	{"artist": {"#text": "Aphex Twin"}, "album": {"#text": "Selected Ambient Works 85-92"}, "name": "Xtal", "url": "u", "date": {"uts": "1612116840", "#text": "31 Jan 2021, 18:14"}}
], "@attr": {"user": "rj", "page": "1", "perPage": "2", "totalPages": "3", "total": "6"}}}`

func TestNowCommand(t *testing.T) {
	out, err := executeCommand(t, fixtureHandler(t, "user.getRecentTracks", recentTracksBody),
		"now", "rj", "--format", "{{.Artist}} / {{.Name}}")
	if err != nil {
		t.Fatalf("now failed: %v", err)
	}
	if strings.TrimSpace(out) != "Boards of Canada / Dawn Chorus" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNowCommand_NothingPlaying(t *testing.T) {
	body := `{"recenttracks": {"track": [
		{"artist": {"#text": "Aphex Twin"}, "album": {"#text": ""}, "name": "Xtal", "url": "u", "date": {"uts": "1", "#text": "t"}}
	], "@attr": {"user": "rj", "page": "1", "perPage": "1", "totalPages": "1", "total": "1"}}}`

	out, err := executeCommand(t, fixtureHandler(t, "user.getRecentTracks", body), "now", "rj")
	if err != errNothingPlaying {
		t.Fatalf("expected errNothingPlaying, got %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Errorf("expected no output, got %q", out)
	}
}

func TestUserRecentCommand(t *testing.T) {
	out, err := executeCommand(t, fixtureHandler(t, "user.getRecentTracks", recentTracksBody),
		"user", "recent", "rj", "--limit", "2")
	if err != nil {
		t.Fatalf("user recent failed: %v", err)
	}
	for _, want := range []string{"ARTIST", "Dawn Chorus", "now playing", "31 Jan 2021, 18:14", "page 1 of 3 (6 total)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestUserCommand_APIError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": 6, "message": "User not found"}`))
	})

	_, err := executeCommand(t, handler, "user", "info", "nobody")
	if err == nil || !strings.Contains(err.Error(), "User not found") {
		t.Errorf("expected User not found error, got %v", err)
	}
}

func TestCallCommand(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("method") != "artist.getInfo" || q.Get("artist") != "Cher" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"artist": {"name": "Cher"}}`))
	})

	out, err := executeCommand(t, handler, "call", "artist.getInfo", "artist=Cher")
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if !strings.Contains(out, `"name": "Cher"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}

func TestArchiveSyncCommand(t *testing.T) {
	body := strings.Replace(recentTracksBody, `"totalPages": "3"`, `"totalPages": "1"`, 1)

	out, err := executeCommand(t, fixtureHandler(t, "user.getRecentTracks", body), "archive", "sync", "rj")
	if err != nil {
		t.Fatalf("archive sync failed: %v", err)
	}
	if !strings.Contains(out, "Added 1 plays for rj") {
		t.Errorf("unexpected sync output %q", out)
	}
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"artist=Cher", "limit=5", "q=a=b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params["artist"] != "Cher" || params["limit"] != "5" || params["q"] != "a=b" {
		t.Errorf("unexpected params %v", params)
	}

	for _, bad := range []string{"artist", "=Cher"} {
		if _, err := parseParams([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParseTimeFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "", want: time.Time{}.Unix()},
		{input: "1612116840", want: 1612116840},
		{input: "2021-01-31T18:14:00Z", want: 1612116840},
		{input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseTimeFlag(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Unix() != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got.Unix())
			}
		})
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"#", "ARTIST"}, [][]string{
		{"1", "坂本龍一"},
		{"10", "Burial"},
	})

	want := "#   ARTIST\n1   坂本龍一\n10  Burial\n"
	if buf.String() != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, buf.String())
	}
}
