package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jfmyers9/lastfm-go/internal/config"
	"github.com/jfmyers9/lastfm-go/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [user]",
	Short: "Follow what a user is listening to",
	Long: `Poll a user's now-playing track and print a line whenever it changes.

Runs until interrupted. The poll interval defaults to watch_interval
from the config file (15 seconds).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("interval", 0, "Poll interval (overrides config)")
	watchCmd.Flags().StringP("format", "f", "", "Output format template (overrides config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}
	defer client.Close()

	user, err := resolveUser(args, cfg)
	if err != nil {
		return err
	}

	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = time.Duration(cfg.WatchInterval) * time.Second
	}
	if interval <= 0 {
		return fmt.Errorf("invalid poll interval %v", interval)
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.OutputFormat
	}

	state, err := watch.NewState(filepath.Join(config.GetConfigDir(), "watch-"+user+".json"))
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to restore watch state, starting fresh")
	}

	out := cmd.OutOrStdout()
	onChange := func(c watch.Change) {
		ts := time.Now().Format(time.TimeOnly)
		if c.Stopped() {
			fmt.Fprintf(out, "%s  (stopped)\n", ts)
			return
		}
		line, err := formatTrack(c.Current.Track, format)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to format track")
			return
		}
		fmt.Fprintf(out, "%s  %s\n", ts, line)
	}

	// Stop polling on the first signal
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := watch.NewPoller(watch.UserFetcher{Users: client.User()}, user, interval, logger)
	return watch.NewWatcher(poller, state, onChange, logger).Run(ctx)
}
