package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List journaled sessions from the status API",
	Long: `List the most recent sessions recorded by a running server.

Examples:
  mcwire sessions
  mcwire sessions --limit 5 --api localhost:2847
  mcwire sessions summary`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

var sessionsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count journaled sessions by outcome",
	Args:  cobra.NoArgs,
	RunE:  runSessionsSummary,
}

var sessionsLimit int

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsSummaryCmd)

	addClientFlags(sessionsCmd)
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "number of sessions to show")
}

func runSessions(cmd *cobra.Command, args []string) error {
	d := newDisplay(cmd)

	c, err := newClient(cmd)
	if err != nil {
		d.Failure("Invalid client configuration", err)
		return err
	}

	rows, err := c.API().RecentSessions(cmd.Context(), sessionsLimit)
	if err != nil {
		d.Failure("Failed to list sessions", err)
		return err
	}
	if len(rows) == 0 {
		d.Info("No sessions recorded yet")
		return nil
	}

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		outcome := "open"
		if r.Ended {
			outcome = "closed"
			if r.ErrorCode != "" {
				outcome = r.ErrorCode
			}
		}
		table = append(table, []string{
			r.SessionID,
			r.ClientAddr,
			r.StartedAt.Local().Format(time.DateTime),
			r.NextState,
			r.Username,
			strconv.FormatInt(r.Frames, 10),
			outcome,
		})
	}
	return d.Table([]string{"Session", "Client", "Started", "Intent", "Username", "Frames", "Outcome"}, table)
}

func runSessionsSummary(cmd *cobra.Command, args []string) error {
	d := newDisplay(cmd)

	c, err := newClient(cmd)
	if err != nil {
		d.Failure("Invalid client configuration", err)
		return err
	}

	s, err := c.API().Summary(cmd.Context())
	if err != nil {
		d.Failure("Failed to load summary", err)
		return err
	}

	return d.KeyValues([][]string{
		{"Sessions", strconv.FormatInt(s.Sessions, 10)},
		{"Open", strconv.FormatInt(s.Open, 10)},
		{"Logins", strconv.FormatInt(s.Logins, 10)},
		{"Errored", strconv.FormatInt(s.Errored, 10)},
	})
}
