package lastfm

import (
	"context"
	"fmt"
	"time"
)

// UserService provides the user.* read methods of the Last.fm API.
type UserService struct {
	client *Client
}

// Period is the time range used by the top-* charts.
type Period string

// Periods accepted by user.getTopAlbums, user.getTopArtists and
// user.getTopTracks.
const (
	PeriodOverall Period = "overall"
	Period7Day    Period = "7day"
	Period1Month  Period = "1month"
	Period3Month  Period = "3month"
	Period6Month  Period = "6month"
	Period12Month Period = "12month"
)

// Valid reports whether p is a period Last.fm understands. The empty
// period is valid and means "overall".
func (p Period) Valid() bool {
	switch p {
	case "", PeriodOverall, Period7Day, Period1Month, Period3Month, Period6Month, Period12Month:
		return true
	default:
		return false
	}
}

// PageOptions controls pagination. Zero values are left to Last.fm's
// defaults (50 items, page 1).
type PageOptions struct {
	Limit int
	Page  int
}

func (o PageOptions) apply(p Params) error {
	if o.Limit < 0 || o.Page < 0 {
		return fmt.Errorf("%w: limit and page must not be negative", ErrInvalidArgument)
	}
	if o.Limit > 0 {
		p["limit"] = o.Limit
	}
	if o.Page > 0 {
		p["page"] = o.Page
	}
	return nil
}

// RecentTracksOptions are the options of user.getRecentTracks.
type RecentTracksOptions struct {
	PageOptions
	From     time.Time // Only plays after this time
	To       time.Time // Only plays before this time
	Extended bool      // Include extended artist data and the loved flag
}

// FriendsOptions are the options of user.getFriends.
type FriendsOptions struct {
	PageOptions
	RecentTracks bool // Include each friend's most recent track
}

// TopOptions are the options of the top-* charts.
type TopOptions struct {
	PageOptions
	Period Period
}

// GetInfo returns a user's profile.
//
// Example:
//
//	user, err := client.User().GetInfo(ctx, "rj")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s has %d scrobbles\n", user.Name, user.Playcount)
func (s *UserService) GetInfo(ctx context.Context, user string) (*User, error) {
	p, err := userParams(user)
	if err != nil {
		return nil, err
	}
	obj, err := s.fetch(ctx, "user.getInfo", p)
	if err != nil {
		return nil, err
	}
	data, err := node(obj).requireChild("UserInfo", "user")
	if err != nil {
		return nil, err
	}
	u, err := ParseUser(data)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetRecentTracks returns a page of a user's listening history, newest
// first. A track the user is listening to right now is listed first with
// NowPlaying set and no PlayedAt date.
//
// Example:
//
//	page, err := client.User().GetRecentTracks(ctx, "rj", &lastfm.RecentTracksOptions{
//	    PageOptions: lastfm.PageOptions{Limit: 10},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range page.Items {
//	    fmt.Println(t.Artist.Name, "-", t.Name)
//	}
func (s *UserService) GetRecentTracks(ctx context.Context, user string, opts *RecentTracksOptions) (*RecentTracksPage, error) {
	p, err := userParams(user)
	if err != nil {
		return nil, err
	}
	if opts != nil {
		if err := opts.apply(p); err != nil {
			return nil, err
		}
		if !opts.From.IsZero() {
			p["from"] = opts.From
		}
		if !opts.To.IsZero() {
			p["to"] = opts.To
		}
		if !opts.From.IsZero() && !opts.To.IsZero() && opts.To.Before(opts.From) {
			return nil, fmt.Errorf("%w: to is before from", ErrInvalidArgument)
		}
		if opts.Extended {
			p["extended"] = true
		}
	}
	obj, err := s.fetch(ctx, "user.getRecentTracks", p)
	if err != nil {
		return nil, err
	}
	return ParseRecentTracksPage(obj)
}

// GetFriends returns a page of a user's friends.
func (s *UserService) GetFriends(ctx context.Context, user string, opts *FriendsOptions) (*FriendsPage, error) {
	p, err := userParams(user)
	if err != nil {
		return nil, err
	}
	if opts != nil {
		if err := opts.apply(p); err != nil {
			return nil, err
		}
		if opts.RecentTracks {
			p["recenttracks"] = true
		}
	}
	obj, err := s.fetch(ctx, "user.getFriends", p)
	if err != nil {
		return nil, err
	}
	return ParseFriendsPage(obj)
}

// GetLovedTracks returns a page of the tracks a user has loved.
func (s *UserService) GetLovedTracks(ctx context.Context, user string, opts *PageOptions) (*LovedTracksPage, error) {
	p, err := userParams(user)
	if err != nil {
		return nil, err
	}
	if opts != nil {
		if err := opts.apply(p); err != nil {
			return nil, err
		}
	}
	obj, err := s.fetch(ctx, "user.getLovedTracks", p)
	if err != nil {
		return nil, err
	}
	return ParseLovedTracksPage(obj)
}

// GetTopAlbums returns a page of a user's most played albums.
func (s *UserService) GetTopAlbums(ctx context.Context, user string, opts *TopOptions) (*TopAlbumsPage, error) {
	p, err := topParams(user, opts)
	if err != nil {
		return nil, err
	}
	obj, err := s.fetch(ctx, "user.getTopAlbums", p)
	if err != nil {
		return nil, err
	}
	return ParseTopAlbumsPage(obj)
}

// GetTopArtists returns a page of a user's most played artists.
func (s *UserService) GetTopArtists(ctx context.Context, user string, opts *TopOptions) (*TopArtistsPage, error) {
	p, err := topParams(user, opts)
	if err != nil {
		return nil, err
	}
	obj, err := s.fetch(ctx, "user.getTopArtists", p)
	if err != nil {
		return nil, err
	}
	return ParseTopArtistsPage(obj)
}

// GetTopTracks returns a page of a user's most played tracks.
func (s *UserService) GetTopTracks(ctx context.Context, user string, opts *TopOptions) (*TopTracksPage, error) {
	p, err := topParams(user, opts)
	if err != nil {
		return nil, err
	}
	obj, err := s.fetch(ctx, "user.getTopTracks", p)
	if err != nil {
		return nil, err
	}
	return ParseTopTracksPage(obj)
}

// fetch sends the request and requires a JSON object in return.
func (s *UserService) fetch(ctx context.Context, method string, p Params) (map[string]any, error) {
	payload, err := s.client.Send(ctx, NewRequest(method, p))
	if err != nil {
		return nil, err
	}
	obj, ok := payload.Object()
	if !ok {
		return nil, Classify(ErrCodeUnexpectedResponse, fmt.Sprintf("%s: expected a JSON object, got %q", method, payload.Raw))
	}
	return obj, nil
}

func userParams(user string) (Params, error) {
	if user == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidArgument)
	}
	return Params{"user": user}, nil
}

func topParams(user string, opts *TopOptions) (Params, error) {
	p, err := userParams(user)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		return p, nil
	}
	if !opts.Period.Valid() {
		return nil, fmt.Errorf("%w: unknown period %q", ErrInvalidArgument, opts.Period)
	}
	if err := opts.apply(p); err != nil {
		return nil, err
	}
	if opts.Period != "" {
		p["period"] = string(opts.Period)
	}
	return p, nil
}
