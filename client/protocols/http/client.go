package http

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gear6io/mcwire/client/config"
	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Client represents an HTTP client for the mcwire status API
type Client struct {
	client  *http.Client
	logger  zerolog.Logger
	baseURL string
}

// SessionRow is one journaled session as reported by the API
type SessionRow struct {
	SessionID  string
	ClientAddr string
	Username   string
	NextState  string
	FinalState string
	ErrorCode  string
	Frames     int64
	StartedAt  time.Time
	Ended      bool
}

// Summary counts journaled sessions by outcome
type Summary struct {
	Sessions int64
	Open     int64
	Logins   int64
	Errored  int64
}

// NewClient creates a new HTTP client
func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	return &Client{
		client:  &http.Client{Timeout: cfg.Server.Timeout},
		logger:  logger,
		baseURL: cfg.GetServerURL(),
	}
}

// Ping tests the connection to the server
func (c *Client) Ping(ctx context.Context) error {
	body, err := c.get(ctx, "/health")
	if err != nil {
		return err
	}
	if status := gjson.GetBytes(body, "status").String(); status != "ok" {
		return errors.Errorf("server reports %q", status)
	}
	return nil
}

// RecentSessions lists up to limit journaled sessions, newest first
func (c *Client) RecentSessions(ctx context.Context, limit int) ([]SessionRow, error) {
	body, err := c.get(ctx, "/sessions/history?limit="+strconv.Itoa(limit))
	if err != nil {
		return nil, err
	}

	var rows []SessionRow
	gjson.GetBytes(body, "sessions").ForEach(func(_, s gjson.Result) bool {
		rows = append(rows, SessionRow{
			SessionID:  s.Get("session_id").String(),
			ClientAddr: s.Get("client_addr").String(),
			Username:   s.Get("username").String(),
			NextState:  s.Get("next_state").String(),
			FinalState: s.Get("final_state").String(),
			ErrorCode:  s.Get("error_code").String(),
			Frames:     s.Get("frames").Int(),
			StartedAt:  s.Get("started_at").Time(),
			Ended:      s.Get("ended_at").Exists(),
		})
		return true
	})
	return rows, nil
}

// Summary returns the journal summary
func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	body, err := c.get(ctx, "/sessions/summary")
	if err != nil {
		return nil, err
	}

	fields := gjson.GetManyBytes(body, "sessions", "open", "logins", "errored")
	return &Summary{
		Sessions: fields[0].Int(),
		Open:     fields[1].Int(),
		Logins:   fields[2].Int(),
		Errored:  fields[3].Int(),
	}, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	c.logger.Debug().Str("url", req.URL.String()).Msg("Calling status API")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = string(body)
		}
		return nil, errors.Errorf("server returned status %d: %s", resp.StatusCode, msg)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.Errorf("server returned invalid JSON for %s", path)
	}
	return body, nil
}
