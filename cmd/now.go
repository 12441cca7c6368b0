/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/jfmyers9/lastfm-go/internal/watch"
	"github.com/jfmyers9/lastfm-go/pkg/lastfm"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var errNothingPlaying = errors.New("nothing playing")

// nowCmd represents the now command
var nowCmd = &cobra.Command{
	Use:   "now [user]",
	Short: "Display the track a user is listening to",
	Long: `Query Last.fm and display the track a user is scrobbling right now.

The output format can be customized in ~/.config/lastfm-go/config.yaml
using a Go template. Available fields: .Name, .Artist, .Album, .URL

Exit codes:
  0 - A track is playing
  1 - Nothing playing, or the request failed`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNow,
}

func init() {
	rootCmd.AddCommand(nowCmd)

	// Add format flag to override config
	nowCmd.Flags().StringP("format", "f", "", "Output format template (overrides config)")
	// Add width flag to set fixed output width
	nowCmd.Flags().IntP("width", "w", 0, "Fixed output width (0=disabled, overrides config)")
	// Add marquee flag to enable scrolling
	nowCmd.Flags().Bool("marquee", false, "Enable marquee scrolling for long text (overrides config)")
}

// nowView is the data passed to the output template
type nowView struct {
	Name   string
	Artist string
	Album  string
	URL    string
}

func runNow(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, client, err := loadClient()
	if err != nil {
		return err
	}
	defer client.Close()

	user, err := resolveUser(args, cfg)
	if err != nil {
		return err
	}

	// Check for format flag override
	formatFlag, _ := cmd.Flags().GetString("format")
	if formatFlag != "" {
		cfg.OutputFormat = formatFlag
	}

	track, err := watch.UserFetcher{Users: client.User()}.NowPlaying(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to get now playing track: %w", err)
	}

	// Nothing playing: exit 1 without noise so status bars stay clean
	if track == nil {
		cmd.SilenceErrors = true
		return errNothingPlaying
	}

	output, err := formatTrack(track, cfg.OutputFormat)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	width, _ := cmd.Flags().GetInt("width")
	if width == 0 {
		width = cfg.OutputWidth
	}

	marquee := cfg.Marquee.Enabled
	if cmd.Flags().Changed("marquee") {
		marquee, _ = cmd.Flags().GetBool("marquee")
	}

	if width > 0 {
		if marquee {
			output = marqueeText(output, width, cfg.Marquee.Speed, cfg.Marquee.Separator, time.Now())
		} else {
			output = padToWidth(output, width)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

// formatTrack applies the template to the track data
func formatTrack(track *lastfm.RecentTrack, templateStr string) (string, error) {
	tmpl, err := template.New("output").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("invalid template: %w", err)
	}

	view := nowView{
		Name:   track.Name,
		Artist: track.Artist.Name,
		Album:  track.Album.Name,
		URL:    track.URL,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	return buf.String(), nil
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, so emoji and CJK characters
// count as 2.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
// If text is shorter than width, pads with spaces.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text // no padding requested
	}

	const ellipsis = "..."
	if runewidth.StringWidth(text) > width {
		// Too narrow for any text: show as much of the ellipsis as fits
		if width <= len(ellipsis) {
			return ellipsis[:width]
		}
		// Truncate to (width - ellipsis) columns, then add the ellipsis
		text = runewidth.Truncate(text, width-len(ellipsis), "") + ellipsis
	}

	// Truncation can land short of width when a wide rune does not fit
	return runewidth.FillRight(text, width)
}

// marqueeText creates a scrolling marquee effect for text that exceeds the target width.
// If text fits within width, returns static padded text.
//
// Algorithm:
//  1. Build the extended text "text + separator + text" for looping
//  2. Scroll position = now.Unix() * speed % len(loop)
//     - speed is in runes per second
//     - the same timestamp always gives the same window
//  3. Copy runes from the position, wrapping around the loop, until the
//     next rune would exceed width display columns
//  4. Pad with spaces to exactly width
//
// The position is counted in runes but the window in display columns, so
// a wide rune that would straddle the right edge is left out and replaced
// by padding.
//
// Interaction with tmux:
//   - tmux re-runs the command every status-interval (typically 5s)
//   - each run jumps speed*interval runes ahead (speed=2, interval=5s
//     advances 10 runes per visible update)
//   - users tune marquee_speed to their status-interval
func marqueeText(text string, width, speed int, separator string, now time.Time) string {
	if width <= 0 {
		return text
	}
	// If text fits, just pad normally (no scrolling needed)
	if runewidth.StringWidth(text) <= width {
		return padToWidth(text, width)
	}

	loop := []rune(text + separator + text)

	// Position = (unix_seconds * runes_per_second) % total_runes
	// Example: speed=2, now=10s, 30-rune loop → position 20
	start := int(now.Unix()*int64(speed)) % len(loop)
	if start < 0 {
		// Negative speed scrolls backwards; keep the index in range
		start += len(loop)
	}

	// Build the window starting at position
	var b strings.Builder
	used := 0
	for i := 0; i < len(loop); i++ {
		r := loop[(start+i)%len(loop)]
		rw := runewidth.RuneWidth(r)
		// Don't exceed target width
		if used+rw > width {
			break
		}
		b.WriteRune(r)
		used += rw
	}

	return runewidth.FillRight(b.String(), width)
}
