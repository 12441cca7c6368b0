package lastfm

import (
	"testing"

	"github.com/goccy/go-json"
)

// Response bodies modeled on real Last.fm API output.
const (
	userInfoJSON = `{
	"user": {
		"name": "rj",
		"age": "0",
		"subscriber": "1",
		"realname": "Richard Jones",
		"bootstrap": "0",
		"playcount": "150316",
		"artist_count": "8435",
		"playlists": "0",
		"track_count": "59004",
		"album_count": "22127",
		"image": [
			{"size": "small", "#text": "https://lastfm.freetls.fastly.net/i/u/34s/rj.png"},
			{"size": "large", "#text": "https://lastfm.freetls.fastly.net/i/u/174s/rj.png"}
		],
		"registered": {"unixtime": "1037793040", "#text": 1037793040},
		"country": "United Kingdom",
		"gender": "n",
		"url": "https://www.last.fm/user/RJ",
		"type": "alum"
	}
}`

	recentTracksJSON = `{
	"recenttracks": {
		"track": [
			{
				"artist": {"mbid": "", "#text": "Boards of Canada"},
				"streamable": "0",
				"image": [{"size": "small", "#text": "https://img/boc-small.png"}],
				"mbid": "",
				"album": {"mbid": "b1", "#text": "Geogaddi"},
				"name": "Dawn Chorus",
				"@attr": {"nowplaying": "true"},
				"url": "https://www.last.fm/music/Boards+of+Canada/_/Dawn+Chorus"
			},
			{
				"artist": {"mbid": "69158f97", "#text": "Aphex Twin"},
				"streamable": "0",
				"image": [],
				"mbid": "c5d4",
				"album": {"mbid": "", "#text": "Selected Ambient Works 85-92"},
				"name": "Xtal",
				"url": "https://www.last.fm/music/Aphex+Twin/_/Xtal",
				"date": {"uts": "1612116840", "#text": "31 Jan 2021, 18:14"}
			}
		],
		"@attr": {"user": "rj", "totalPages": "3", "page": "1", "perPage": "2", "total": "6"}
	}
}`

	friendsJSON = `{
	"friends": {
		"user": [
			{
				"name": "eartle",
				"realname": "Michael",
				"subscriber": "0",
				"playcount": "1000",
				"image": [],
				"registered": {"unixtime": "1100000000", "#text": "2004-11-09 11:33"},
				"country": "United Kingdom",
				"url": "https://www.last.fm/user/eartle",
				"type": "user"
			}
		],
		"@attr": {"user": "rj", "totalPages": "1", "page": "1", "perPage": "50", "total": "1"}
	}
}`

	lovedTracksJSON = `{
	"lovedtracks": {
		"track": {
			"artist": {"url": "https://www.last.fm/music/Portishead", "name": "Portishead", "mbid": "8f6bd1e4"},
			"date": {"uts": "1500000000", "#text": "14 Jul 2017, 02:40"},
			"mbid": "",
			"url": "https://www.last.fm/music/Portishead/_/Roads",
			"name": "Roads",
			"image": [],
			"streamable": {"fulltrack": "0", "#text": "0"}
		},
		"@attr": {"user": "rj", "totalPages": "1", "page": "1", "perPage": "50", "total": "1"}
	}
}`

	topAlbumsJSON = `{
	"topalbums": {
		"album": [
			{
				"artist": {"url": "https://www.last.fm/music/Radiohead", "name": "Radiohead", "mbid": "a74b1b7f"},
				"image": [{"size": "small", "#text": "https://img/kida.png"}],
				"mbid": "k1d",
				"url": "https://www.last.fm/music/Radiohead/Kid+A",
				"playcount": "412",
				"@attr": {"rank": "1"},
				"name": "Kid A"
			}
		],
		"@attr": {"user": "rj", "totalPages": "10", "page": "1", "perPage": "1", "total": "10"}
	}
}`

	topArtistsJSON = `{
	"topartists": {
		"artist": [
			{"streamable": "0", "image": [], "mbid": "", "url": "https://www.last.fm/music/Autechre", "playcount": "981", "@attr": {"rank": "1"}, "name": "Autechre"},
			{"streamable": "0", "image": [], "mbid": "", "url": "https://www.last.fm/music/Burial", "playcount": "640", "@attr": {"rank": "2"}, "name": "Burial"}
		],
		"@attr": {"user": "rj", "totalPages": "5", "page": "1", "perPage": "2", "total": "10"}
	}
}`

	topTracksJSON = `{
	"toptracks": {
		"@attr": {"page": "1", "total": "100", "user": "rj", "perPage": "1", "totalPages": "100"},
		"track": [
			{
				"@attr": {"rank": "1"},
				"duration": "245",
				"playcount": "97",
				"artist": {"url": "https://www.last.fm/music/Burial", "name": "Burial", "mbid": "9ddce51c"},
				"image": [],
				"streamable": {"fulltrack": "0", "#text": "0"},
				"mbid": "",
				"name": "Archangel",
				"url": "https://www.last.fm/music/Burial/_/Archangel"
			}
		]
	}
}`
)

// decodeFixture decodes a JSON object fixture.
func decodeFixture(t *testing.T, s string) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return v
}
