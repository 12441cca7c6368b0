package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/jfmyers9/lastfm-go/internal/archive"
	"github.com/jfmyers9/lastfm-go/internal/config"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Keep a local SQLite archive of a user's plays",
	Long: `Copy a user's listening history into a local SQLite database.

The first sync fetches the whole history; later syncs only fetch plays
newer than the newest archived one. The database path defaults to
~/.config/lastfm-go/archive.db and can be set with archive_path or --db.`,
}

var archiveSyncCmd = &cobra.Command{
	Use:   "sync [user]",
	Short: "Fetch new plays into the archive",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runArchiveSync,
}

var archiveStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show archive statistics",
	Args:  cobra.NoArgs,
	RunE:  runArchiveStats,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveSyncCmd)
	archiveCmd.AddCommand(archiveStatsCmd)

	archiveCmd.PersistentFlags().String("db", "", "Archive database path (overrides config)")
	archiveStatsCmd.Flags().Int("top", 10, "Number of top artists to show")
	archiveStatsCmd.Flags().Int("recent", 5, "Number of recent plays to show")
}

func openArchive(cmd *cobra.Command, cfg *config.Config) (*archive.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = cfg.ArchivePath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	store, err := archive.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return store, nil
}

func runArchiveSync(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}
	defer client.Close()

	user, err := resolveUser(args, cfg)
	if err != nil {
		return err
	}

	store, err := openArchive(cmd, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// A long sync can be interrupted; plays saved so far are kept
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	added, err := archive.NewSyncer(client.User(), store, logger).Sync(ctx, user)
	if err != nil {
		return fmt.Errorf("sync stopped after %d new plays: %w", added, err)
	}

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %d plays for %s in %s (%d archived)\n",
		added, user, time.Since(start).Round(time.Millisecond), total)
	return nil
}

func runArchiveStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := openArchive(cmd, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Fprintln(out, "The archive is empty. Run 'lastfm archive sync' first.")
		return nil
	}

	latest, _, err := store.Latest(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d plays, newest %s\n\n", total, latest.Local().Format(time.DateTime))

	topN, _ := cmd.Flags().GetInt("top")
	top, err := store.TopArtists(ctx, topN)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(top))
	for i, a := range top {
		rows = append(rows, []string{strconv.Itoa(i + 1), a.Artist, strconv.Itoa(a.Plays)})
	}
	printTable(out, []string{"#", "ARTIST", "PLAYS"}, rows)

	recentN, _ := cmd.Flags().GetInt("recent")
	if recentN <= 0 {
		return nil
	}
	recent, err := store.Recent(ctx, recentN)
	if err != nil {
		return err
	}
	rows = rows[:0]
	for _, p := range recent {
		rows = append(rows, []string{p.Artist, p.Track, p.PlayedAt.Local().Format(time.DateTime)})
	}
	fmt.Fprintln(out)
	printTable(out, []string{"ARTIST", "TRACK", "PLAYED"}, rows)
	return nil
}
