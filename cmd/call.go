package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jfmyers9/lastfm-go/pkg/lastfm"
	"github.com/spf13/cobra"
)

var callCmd = &cobra.Command{
	Use:   "call <method> [key=value ...]",
	Short: "Call any Last.fm API method",
	Long: `Send a single GET request for an arbitrary API method and print the
decoded response.

Parameters are given as key=value pairs. format, api_key and method are
added automatically; a pair with the same key overrides them.

Example:
  lastfm call artist.getInfo artist=Cher
  lastfm call user.getRecentTracks user=rj limit=5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) error {
	params, err := parseParams(args[1:])
	if err != nil {
		return err
	}

	cfg, client, err := loadClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LastFM.TimeoutDuration()+5*time.Second)
	defer cancel()

	payload, err := client.Send(ctx, lastfm.NewRequest(args[0], params))
	if err != nil {
		return err
	}

	if text, ok := payload.Text(); ok {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	return printJSON(cmd.OutOrStdout(), payload.Value)
}

// parseParams turns key=value arguments into request parameters.
func parseParams(args []string) (lastfm.Params, error) {
	params := make(lastfm.Params, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", arg)
		}
		params[key] = value
	}
	return params, nil
}
