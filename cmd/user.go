package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jfmyers9/lastfm-go/pkg/lastfm"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Query a user's profile, history and charts",
	Long: `Query the user.* methods of the Last.fm API.

Each subcommand takes an optional user name and falls back to
default_user from the config file.`,
}

// userQuery is one user.* subcommand
type userQuery func(ctx context.Context, cmd *cobra.Command, users *lastfm.UserService, user string) error

func init() {
	rootCmd.AddCommand(userCmd)

	flags := userCmd.PersistentFlags()
	flags.Int("limit", 0, "Items per page (default: Last.fm's default of 50)")
	flags.Int("page", 0, "Page to fetch (default: 1)")
	flags.String("period", "", "Chart period: overall, 7day, 1month, 3month, 6month, 12month")
	flags.String("from", "", "Only plays after this time (RFC 3339, YYYY-MM-DD or unix seconds)")
	flags.String("to", "", "Only plays before this time (RFC 3339, YYYY-MM-DD or unix seconds)")
	flags.Bool("extended", false, "Include extended data (recent tracks) or friends' recent tracks (friends)")
	flags.Bool("json", false, "Print the parsed result as JSON")

	subcommands := []struct {
		use   string
		short string
		run   userQuery
	}{
		{"info", "Show a user's profile", runUserInfo},
		{"recent", "Show a user's recent tracks", runUserRecent},
		{"friends", "Show a user's friends", runUserFriends},
		{"loved", "Show a user's loved tracks", runUserLoved},
		{"top-albums", "Show a user's most played albums", runUserTopAlbums},
		{"top-artists", "Show a user's most played artists", runUserTopArtists},
		{"top-tracks", "Show a user's most played tracks", runUserTopTracks},
	}

	for _, sc := range subcommands {
		run := sc.run
		userCmd.AddCommand(&cobra.Command{
			Use:   sc.use + " [user]",
			Short: sc.short,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runUserQuery(cmd, args, run)
			},
		})
	}
}

func runUserQuery(cmd *cobra.Command, args []string, run userQuery) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}
	defer client.Close()

	user, err := resolveUser(args, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LastFM.TimeoutDuration()+5*time.Second)
	defer cancel()

	return run(ctx, cmd, client.User(), user)
}

func pageOptions(cmd *cobra.Command) lastfm.PageOptions {
	limit, _ := cmd.Flags().GetInt("limit")
	page, _ := cmd.Flags().GetInt("page")
	return lastfm.PageOptions{Limit: limit, Page: page}
}

func topOptions(cmd *cobra.Command) *lastfm.TopOptions {
	period, _ := cmd.Flags().GetString("period")
	return &lastfm.TopOptions{PageOptions: pageOptions(cmd), Period: lastfm.Period(period)}
}

// parseTimeFlag accepts RFC 3339, a plain date or unix seconds.
func parseTimeFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339, YYYY-MM-DD or unix seconds", s)
}

// render prints v as JSON when --json is set and as a table otherwise.
func render(cmd *cobra.Command, v any, table func(w io.Writer)) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(cmd.OutOrStdout(), v)
	}
	table(cmd.OutOrStdout())
	return nil
}

func printPageFooter(w io.Writer, info lastfm.PageInfo) {
	fmt.Fprintf(w, "\npage %d of %d (%d total)\n", info.Page, info.TotalPages, info.Total)
}

func runUserInfo(ctx context.Context, cmd *cobra.Command, users *lastfm.UserService, user string) error {
	info, err := users.GetInfo(ctx, user)
	if err != nil {
		return err
	}
	return render(cmd, info, func(w io.Writer) {
		printTable(w, []string{"FIELD", "VALUE"}, [][]string{
			{"Name", info.Name},
			{"Real name", info.RealName},
			{"Country", info.Country},
			{"Scrobbles", strconv.Itoa(info.Playcount)},
			{"Artists", strconv.Itoa(info.ArtistCount)},
			{"Albums", strconv.Itoa(info.AlbumCount)},
			{"Tracks", strconv.Itoa(info.TrackCount)},
			{"Registered", info.Registered.Time().Format(time.DateOnly)},
			{"Type", info.Type},
			{"URL", info.URL},
		})
	})
}

func runUserRecent(ctx context.Context, cmd *cobra.Command, users *lastfm.UserService, user string) error {
	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")
	from, err := parseTimeFlag(fromFlag)
	if err != nil {
		return err
	}
	to, err := parseTimeFlag(toFlag)
	if err != nil {
		return err
	}
	extended, _ := cmd.Flags().GetBool("extended")

	page, err := users.GetRecentTracks(ctx, user, &lastfm.RecentTracksOptions{
		PageOptions: pageOptions(cmd),
		From:        from,
		To:          to,
		Extended:    extended,
	})
	if err != nil {
		return err
	}

	return render(cmd, page, func(w io.Writer) {
		rows := make([][]string, 0, page.Len())
		for _, t := range page.Items {
			when := "now playing"
			if t.PlayedAt != nil {
				when = t.PlayedAt.Text
			}
			rows = append(rows, []string{t.Artist.Name, t.Name, t.Album.Name, when})
		}
		printTable(w, []string{"ARTIST", "TRACK", "ALBUM", "WHEN"}, rows)
		printPageFooter(w, page.Info)
	})
}

func runUserFriends(ctx context.Context, cmd *cobra.Command, users *lastfm.UserService, user string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	page, err := users.GetFriends(ctx, user, &lastfm.FriendsOptions{
		PageOptions:  pageOptions(cmd),
		RecentTracks: extended,
	})
	if err != nil {
		return err
	}

	return render(cmd, page, func(w io.Writer) {
		rows := make([][]string, 0, page.Len())
		for _, f := range page.Items {
			rows = append(rows, []string{f.Name, f.RealName, f.Country, strconv.Itoa(f.Playcount)})
		}
		printTable(w, []string{"NAME", "REAL NAME", "COUNTRY", "SCROBBLES"}, rows)
		printPageFooter(w, page.Info)
	})
}

func runUserLoved(ctx context.Context, cmd *cobra.Command, users *lastfm.UserService, user string) error {
	opts := pageOptions(cmd)
	page, err := users.GetLovedTracks(ctx, user, &opts)
	if err != nil {
		return err
	}

	return render(cmd, page, func(w io.Writer) {
		rows := make([][]string, 0, page.Len())
		for _, t := range page.Items {
			loved := ""
			if t.PlayedAt != nil {
				loved = t.PlayedAt.Text
			}
			rows = append(rows, []string{t.Artist.Name, t.Name, loved})
		}
		printTable(w, []string{"ARTIST", "TRACK", "LOVED"}, rows)
		printPageFooter(w, page.Info)
	})
}

func runUserTopAlbums(ctx context.Context, cmd *cobra.Command, users *lastfm.UserService, user string) error {
	page, err := users.GetTopAlbums(ctx, user, topOptions(cmd))
	if err != nil {
		return err
	}

	return render(cmd, page, func(w io.Writer) {
		rows := make([][]string, 0, page.Len())
		for _, a := range page.Items {
			rows = append(rows, []string{strconv.Itoa(a.Rank), a.Artist.Name, a.Name, strconv.Itoa(a.Playcount)})
		}
		printTable(w, []string{"#", "ARTIST", "ALBUM", "PLAYS"}, rows)
		printPageFooter(w, page.Info)
	})
}

func runUserTopArtists(ctx context.Context, cmd *cobra.Command, users *lastfm.UserService, user string) error {
	page, err := users.GetTopArtists(ctx, user, topOptions(cmd))
	if err != nil {
		return err
	}

	return render(cmd, page, func(w io.Writer) {
		rows := make([][]string, 0, page.Len())
		for _, a := range page.Items {
			rows = append(rows, []string{strconv.Itoa(a.Rank), a.Name, strconv.Itoa(a.Playcount)})
		}
		printTable(w, []string{"#", "ARTIST", "PLAYS"}, rows)
		printPageFooter(w, page.Info)
	})
}

func runUserTopTracks(ctx context.Context, cmd *cobra.Command, users *lastfm.UserService, user string) error {
	page, err := users.GetTopTracks(ctx, user, topOptions(cmd))
	if err != nil {
		return err
	}

	return render(cmd, page, func(w io.Writer) {
		rows := make([][]string, 0, page.Len())
		for _, t := range page.Items {
			rows = append(rows, []string{strconv.Itoa(t.Rank), t.Artist.Name, t.Name, strconv.Itoa(t.Playcount)})
		}
		printTable(w, []string{"#", "ARTIST", "TRACK", "PLAYS"}, rows)
		printPageFooter(w, page.Info)
	})
}
