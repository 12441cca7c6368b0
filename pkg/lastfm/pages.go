package lastfm

// PageInfo describes where a page sits in a paginated collection. Last.fm
// sends it under the "@attr" key of every paginated resource.
type PageInfo struct {
	PerPage    int
	TotalPages int
	Page       int
	Total      int    // Total items across all pages (scrobbles for recent tracks)
	User       string // User the collection belongs to
}

// ParsePageInfo parses an "@attr" page object. Every field is required.
func ParsePageInfo(data map[string]any) (PageInfo, error) {
	n := node(data)
	var (
		info PageInfo
		err  error
	)
	if info.PerPage, err = n.requireInt("PageInfo", "perPage"); err != nil {
		return PageInfo{}, err
	}
	if info.TotalPages, err = n.requireInt("PageInfo", "totalPages"); err != nil {
		return PageInfo{}, err
	}
	if info.Page, err = n.requireInt("PageInfo", "page"); err != nil {
		return PageInfo{}, err
	}
	if info.Total, err = n.requireInt("PageInfo", "total"); err != nil {
		return PageInfo{}, err
	}
	if info.User, err = n.requireStr("PageInfo", "user"); err != nil {
		return PageInfo{}, err
	}
	return info, nil
}

// Page is one page of a paginated collection.
type Page[T any] struct {
	Info  PageInfo
	Items []T
}

// Len returns the number of items on the page.
func (p *Page[T]) Len() int {
	return len(p.Items)
}

// HasNext reports whether more pages follow this one.
func (p *Page[T]) HasNext() bool {
	return p.Info.Page < p.Info.TotalPages
}

// Paginated collections returned by the user service.
type (
	RecentTracksPage = Page[RecentTrack]
	FriendsPage      = Page[User]
	LovedTracksPage  = Page[Track]
	TopAlbumsPage    = Page[TopAlbum]
	TopArtistsPage   = Page[TopArtist]
	TopTracksPage    = Page[TopTrack]
)

// parsePage reads data[resource]["@attr"] as the page info and each
// object of data[resource][itemKey] with parse.
func parsePage[T any](data map[string]any, typ, resource, itemKey string, parse func(map[string]any) (T, error)) (*Page[T], error) {
	root, err := node(data).requireChild(typ, resource)
	if err != nil {
		return nil, err
	}
	attr, err := root.requireChild(typ, "@attr")
	if err != nil {
		return nil, err
	}
	info, err := ParsePageInfo(attr)
	if err != nil {
		return nil, err
	}

	raw := root.list(itemKey)
	items := make([]T, 0, len(raw))
	for _, item := range raw {
		v, err := parse(item)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return &Page[T]{Info: info, Items: items}, nil
}

// ParseRecentTracksPage parses a user.getRecentTracks response.
func ParseRecentTracksPage(data map[string]any) (*RecentTracksPage, error) {
	return parsePage(data, "RecentTracksPage", "recenttracks", "track", ParseRecentTrack)
}

// ParseFriendsPage parses a user.getFriends response.
func ParseFriendsPage(data map[string]any) (*FriendsPage, error) {
	return parsePage(data, "FriendsPage", "friends", "user", ParseUser)
}

// ParseLovedTracksPage parses a user.getLovedTracks response.
func ParseLovedTracksPage(data map[string]any) (*LovedTracksPage, error) {
	return parsePage(data, "LovedTracksPage", "lovedtracks", "track", ParseTrack)
}

// ParseTopAlbumsPage parses a user.getTopAlbums response.
func ParseTopAlbumsPage(data map[string]any) (*TopAlbumsPage, error) {
	return parsePage(data, "TopAlbumsPage", "topalbums", "album", ParseTopAlbum)
}

// ParseTopArtistsPage parses a user.getTopArtists response.
func ParseTopArtistsPage(data map[string]any) (*TopArtistsPage, error) {
	return parsePage(data, "TopArtistsPage", "topartists", "artist", ParseTopArtist)
}

// ParseTopTracksPage parses a user.getTopTracks response.
func ParseTopTracksPage(data map[string]any) (*TopTracksPage, error) {
	return parsePage(data, "TopTracksPage", "toptracks", "track", ParseTopTrack)
}
