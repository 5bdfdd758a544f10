package heron

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

const (
	loginPath = "/ajaxauth/login"
	// tle_latest is being deprecated by space-track; switch to the gp class
	// when it goes away.
	queryPathFmt = "/basicspacedata/query/class/tle_latest/ORDINAL/1/NORAD_CAT_ID/%d/format/tle"

	maxResponseBytes = 1 << 20
)

// SpaceTrackClient retrieves the latest element set for a catalog number from
// space-track.org. The session cookie from the login call is carried by the
// client's jar.
type SpaceTrackClient struct {
	baseURL    string
	identity   string
	password   string
	httpClient *http.Client
	logger     kitlog.Logger
}

// NewSpaceTrackClient creates a client from the loaded configuration.
func NewSpaceTrackClient(cfg Config, logger kitlog.Logger) (*SpaceTrackClient, error) {
	if cfg.SpaceTrack.Identity == "" || cfg.SpaceTrack.Password == "" {
		return nil, fmt.Errorf("spacetrack: identity and password must be configured")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("spacetrack: creating cookie jar: %w", err)
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &SpaceTrackClient{
		baseURL:  strings.TrimRight(cfg.SpaceTrack.BaseURL, "/"),
		identity: cfg.SpaceTrack.Identity,
		password: cfg.SpaceTrack.Password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		logger: kitlog.With(logger, "subsys", "spacetrack"),
	}, nil
}

// LatestTLE fetches and parses the most recent element set for the given
// catalog number. Retry on transient failure is the caller's policy, not
// the client's.
func (c *SpaceTrackClient) LatestTLE(ctx context.Context, catalogNumber int) (TLE, error) {
	if err := c.login(ctx); err != nil {
		return TLE{}, err
	}
	raw, err := c.query(ctx, catalogNumber)
	if err != nil {
		return TLE{}, err
	}
	lines := splitTLELines(raw)
	if len(lines) < 2 {
		return TLE{}, fmt.Errorf("spacetrack: expected two element lines for %d, got %d line(s)", catalogNumber, len(lines))
	}
	c.logger.Log("level", "info", "catalog", catalogNumber, "line1", lines[0], "line2", lines[1])
	return ParseTLE(lines[0], lines[1])
}

func (c *SpaceTrackClient) login(ctx context.Context) error {
	form := url.Values{}
	form.Set("identity", c.identity)
	form.Set("password", c.password)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("spacetrack: creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spacetrack: login: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("spacetrack: login returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *SpaceTrackClient) query(ctx context.Context, catalogNumber int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+fmt.Sprintf(queryPathFmt, catalogNumber), nil)
	if err != nil {
		return "", fmt.Errorf("spacetrack: creating query request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("spacetrack: fetching element set: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("spacetrack: query returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("spacetrack: reading response body: %w", err)
	}
	return string(body), nil
}

// splitTLELines splits raw element text into its non-empty lines, dropping a
// leading name line when the source returns the three-line format.
func splitTLELines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) >= 3 && !strings.HasPrefix(lines[0], "1 ") {
		lines = lines[1:]
	}
	return lines
}
