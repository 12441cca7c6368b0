package lastfm

import (
	"strconv"
	"time"
)

// Date is a point in time as reported by Last.fm: a unix timestamp plus
// the human-readable text Last.fm renders for it.
type Date struct {
	Unix int64  // Seconds since the epoch
	Text string // e.g. "31 Jan 2021, 18:14"
}

// Time returns the date as a time.Time in UTC.
func (d Date) Time() time.Time {
	return time.Unix(d.Unix, 0).UTC()
}

func (d Date) String() string {
	return d.Text
}

// ParseDate parses a Last.fm date object. The timestamp is read from
// "uts", or from "unixtime" when "uts" is absent.
func ParseDate(data map[string]any) (Date, error) {
	n := node(data)

	key := "uts"
	if !n.has(key) {
		key = "unixtime"
	}
	if !n.has(key) {
		return Date{}, missingField("Date", "uts")
	}
	ts, err := strconv.ParseInt(n.str(key), 10, 64)
	if err != nil {
		return Date{}, missingField("Date", key)
	}

	text, err := n.requireStr("Date", "#text")
	if err != nil {
		return Date{}, err
	}
	return Date{Unix: ts, Text: text}, nil
}

// Image is one size of an artwork or avatar image.
type Image struct {
	Size string // small, medium, large, extralarge or mega
	URL  string
}

// ParseImage parses a Last.fm image object.
func ParseImage(data map[string]any) (Image, error) {
	n := node(data)
	size, err := n.requireStr("Image", "size")
	if err != nil {
		return Image{}, err
	}
	url, err := n.requireStr("Image", "#text")
	if err != nil {
		return Image{}, err
	}
	return Image{Size: size, URL: url}, nil
}

func parseImages(n node) ([]Image, error) {
	items := n.list("image")
	images := make([]Image, 0, len(items))
	for _, item := range items {
		img, err := ParseImage(item)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// EntityRef is a named reference to an artist, album or track embedded in
// another object.
type EntityRef struct {
	Name string
	MBID string // MusicBrainz ID; empty when unknown
}

func (e EntityRef) String() string {
	return e.Name
}

// ParseEntityRef parses a reference object. The name is read from "#text"
// when it is set, and from "name" otherwise.
func ParseEntityRef(data map[string]any) EntityRef {
	n := node(data)
	name := n.str("#text")
	if name == "" {
		name = n.str("name")
	}
	return EntityRef{Name: name, MBID: n.str("mbid")}
}

func parseEntityRefField(n node, typ, key string) (EntityRef, error) {
	switch v := n[key].(type) {
	case map[string]any:
		return ParseEntityRef(v), nil
	case string:
		return EntityRef{Name: v}, nil
	default:
		return EntityRef{}, missingField(typ, key)
	}
}

// Track holds the fields every track representation shares.
type Track struct {
	Artist     EntityRef
	Streamable bool
	Images     []Image
	MBID       string
	Name       string
	URL        string
	Duration   int   // Seconds; 0 when unknown
	PlayedAt   *Date // Nil for tracks without a play date
}

func (t Track) String() string {
	return t.Artist.Name + " - " + t.Name
}

// ParseTrack parses the fields shared by every track representation.
func ParseTrack(data map[string]any) (Track, error) {
	return parseTrack(node(data), "Track")
}

func parseTrack(n node, typ string) (Track, error) {
	artist, err := parseEntityRefField(n, typ, "artist")
	if err != nil {
		return Track{}, err
	}
	images, err := parseImages(n)
	if err != nil {
		return Track{}, err
	}
	name, err := n.requireStr(typ, "name")
	if err != nil {
		return Track{}, err
	}
	url, err := n.requireStr(typ, "url")
	if err != nil {
		return Track{}, err
	}

	t := Track{
		Artist:     artist,
		Streamable: parseStreamable(n),
		Images:     images,
		MBID:       n.str("mbid"),
		Name:       name,
		URL:        url,
		Duration:   n.int("duration"),
	}

	if date, ok := n.child("date"); ok {
		d, err := ParseDate(date)
		if err != nil {
			return Track{}, err
		}
		t.PlayedAt = &d
	}
	return t, nil
}

// parseStreamable handles both the scalar form and the
// {"#text": "0", "fulltrack": "0"} object form.
func parseStreamable(n node) bool {
	if obj, ok := n.child("streamable"); ok {
		return obj.bool("#text") || obj.bool("fulltrack")
	}
	return n.bool("streamable")
}

// RecentTrack is an entry of a user's listening history.
type RecentTrack struct {
	Track
	Album      EntityRef
	NowPlaying bool // The user is listening to this track right now
}

// ParseRecentTrack parses an entry of user.getRecentTracks.
func ParseRecentTrack(data map[string]any) (RecentTrack, error) {
	n := node(data)
	base, err := parseTrack(n, "RecentTrack")
	if err != nil {
		return RecentTrack{}, err
	}
	album, err := parseEntityRefField(n, "RecentTrack", "album")
	if err != nil {
		return RecentTrack{}, err
	}
	rt := RecentTrack{Track: base, Album: album}
	if attr, ok := n.child("@attr"); ok {
		rt.NowPlaying = attr.bool("nowplaying")
	}
	return rt, nil
}

// TopTrack is a ranked entry of a user's most played tracks.
type TopTrack struct {
	Track
	Playcount int
	Rank      int
}

// ParseTopTrack parses an entry of user.getTopTracks.
func ParseTopTrack(data map[string]any) (TopTrack, error) {
	n := node(data)
	base, err := parseTrack(n, "TopTrack")
	if err != nil {
		return TopTrack{}, err
	}
	playcount, rank := parseTopAttrs(n)
	return TopTrack{Track: base, Playcount: playcount, Rank: rank}, nil
}

// parseTopAttrs reads the playcount and the @attr rank shared by the
// top-* lists.
func parseTopAttrs(n node) (playcount, rank int) {
	playcount = n.int("playcount")
	if attr, ok := n.child("@attr"); ok {
		rank = attr.int("rank")
	}
	return playcount, rank
}

// Album is a partial album: a reference plus its artist and artwork.
type Album struct {
	EntityRef
	Artist EntityRef
	Images []Image
}

// ParseAlbum parses a partial album object.
func ParseAlbum(data map[string]any) (Album, error) {
	return parseAlbum(node(data), "Album")
}

func parseAlbum(n node, typ string) (Album, error) {
	ref := ParseEntityRef(n)
	artist, err := parseEntityRefField(n, typ, "artist")
	if err != nil {
		return Album{}, err
	}
	images, err := parseImages(n)
	if err != nil {
		return Album{}, err
	}
	return Album{EntityRef: ref, Artist: artist, Images: images}, nil
}

// TopAlbum is a ranked entry of a user's most played albums.
type TopAlbum struct {
	Album
	Playcount int
	Rank      int
}

// ParseTopAlbum parses an entry of user.getTopAlbums.
func ParseTopAlbum(data map[string]any) (TopAlbum, error) {
	n := node(data)
	base, err := parseAlbum(n, "TopAlbum")
	if err != nil {
		return TopAlbum{}, err
	}
	playcount, rank := parseTopAttrs(n)
	return TopAlbum{Album: base, Playcount: playcount, Rank: rank}, nil
}

// Artist is a partial artist: a reference plus its images.
type Artist struct {
	EntityRef
	Images []Image
}

// ParseArtist parses a partial artist object.
func ParseArtist(data map[string]any) (Artist, error) {
	n := node(data)
	images, err := parseImages(n)
	if err != nil {
		return Artist{}, err
	}
	return Artist{EntityRef: ParseEntityRef(n), Images: images}, nil
}

// TopArtist is a ranked entry of a user's most played artists.
type TopArtist struct {
	Artist
	Playcount int
	Rank      int
}

// ParseTopArtist parses an entry of user.getTopArtists.
func ParseTopArtist(data map[string]any) (TopArtist, error) {
	base, err := ParseArtist(data)
	if err != nil {
		return TopArtist{}, err
	}
	playcount, rank := parseTopAttrs(node(data))
	return TopArtist{Artist: base, Playcount: playcount, Rank: rank}, nil
}

// User is a Last.fm user profile as returned by user.getInfo and
// user.getFriends.
type User struct {
	Name        string
	Age         int
	Subscriber  bool
	RealName    string
	Playcount   int // Total scrobbles
	ArtistCount int
	Playlists   int
	TrackCount  int
	AlbumCount  int
	Images      []Image
	Registered  Date
	Country     string
	Gender      string
	URL         string
	Type        string // Account type, e.g. "user" or "subscriber"
}

// ParseUser parses a user object.
func ParseUser(data map[string]any) (User, error) {
	n := node(data)
	images, err := parseImages(n)
	if err != nil {
		return User{}, err
	}
	reg, err := n.requireChild("User", "registered")
	if err != nil {
		return User{}, err
	}
	registered, err := ParseDate(reg)
	if err != nil {
		return User{}, err
	}
	return User{
		Name:        n.str("name"),
		Age:         n.int("age"),
		Subscriber:  n.bool("subscriber"),
		RealName:    n.str("realname"),
		Playcount:   n.int("playcount"),
		ArtistCount: n.int("artist_count"),
		Playlists:   n.int("playlists"),
		TrackCount:  n.int("track_count"),
		AlbumCount:  n.int("album_count"),
		Images:      images,
		Registered:  registered,
		Country:     n.str("country"),
		Gender:      n.str("gender"),
		URL:         n.str("url"),
		Type:        n.str("type"),
	}, nil
}
