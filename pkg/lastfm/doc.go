// Package lastfm provides a client library for the Last.fm API 2.0.
//
// # Overview
//
// This package implements a Go client for the read side of the Last.fm
// API. Every call is a single GET request, keyed by your API key, against one
// endpoint; responses are decoded from JSON, API errors are classified,
// and payloads are parsed into typed, read-only models.
//
// # Installation
//
//	go get github.com/jfmyers9/lastfm-go/pkg/lastfm
//
// # Quick Start
//
// First, create a client with your API key:
//
//	import "github.com/jfmyers9/lastfm-go/pkg/lastfm"
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey: "your-api-key",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// # User Data
//
// The user service wraps the user.* methods and returns typed models:
//
//	info, err := client.User().GetInfo(ctx, "rj")
//
//	recent, err := client.User().GetRecentTracks(ctx, "rj", &lastfm.RecentTracksOptions{
//	    PageOptions: lastfm.PageOptions{Limit: 20},
//	})
//	for _, t := range recent.Items {
//	    if t.NowPlaying {
//	        fmt.Println("now playing:", t)
//	    }
//	}
//
//	top, err := client.User().GetTopArtists(ctx, "rj", &lastfm.TopOptions{
//	    Period: lastfm.Period7Day,
//	})
//
// # Raw Requests
//
// Any API method can be called directly. The payload holds the decoded
// JSON value:
//
//	payload, err := client.Send(ctx, lastfm.NewRequest("artist.getInfo", lastfm.Params{
//	    "artist": "Cher",
//	}))
//	obj, ok := payload.Object()
//
// The format, api_key and method parameters are added automatically. A
// parameter of the same name in Params overrides them.
//
// # Error Handling
//
// Errors reported by Last.fm are returned as *Error and classified by
// code:
//
//	_, err := client.User().GetInfo(ctx, "nobody")
//	var lastfmErr *lastfm.Error
//	if errors.As(err, &lastfmErr) {
//	    switch lastfmErr.Kind {
//	    case lastfm.KindInvalidParameters:
//	        // code 6
//	    case lastfm.KindOperationFailed:
//	        // code 8
//	    }
//	}
//
// Network failures are *TransportError, cancellation surfaces as the
// context's error, and missing JSON keys while parsing are
// *MissingFieldError. The client never retries; Error.Temporary tells
// callers when a retry may help.
//
// # Context Support
//
// All API methods accept a context.Context for cancellation and timeouts:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	info, err := client.User().GetInfo(ctx, "rj")
//
// # Configuration
//
// The client can be configured with custom HTTP clients, base URLs (for
// testing), a User-Agent, a zerolog logger and an optional rate limit:
//
//	logger := zerolog.New(os.Stderr).Level(zerolog.DebugLevel)
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey:     "your-api-key",
//	    HTTPClient: &http.Client{Timeout: 30 * time.Second},
//	    UserAgent:  "my-app/1.0",
//	    Logger:     &logger,
//	    RateLimit:  5, // requests per second
//	})
//
// # API Coverage
//
// Currently implemented:
//   - user.getInfo, user.getRecentTracks, user.getFriends,
//     user.getLovedTracks, user.getTopAlbums, user.getTopArtists,
//     user.getTopTracks
//   - any other read method through Client.Send
//
// # Last.fm API Documentation
//
// For more information about the Last.fm API:
// https://www.last.fm/api
package lastfm
