// Package zoomapi is the client for the Zoom REST API: server-to-server
// OAuth, past-meeting instances and participant QOS metrics.
package zoomapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/roomtrack/backend/config"
	"github.com/roomtrack/backend/internal/models"
)

const (
	defaultBaseURL  = "https://api.zoom.us/v2"
	defaultOAuthURL = "https://zoom.us/oauth/token"

	// A sampling interval counts as camera-on when video input bitrate
	// exceeds this threshold.
	bitrateOnThresholdKbps = 50

	qosPageSize = 100
)

// ErrMeetingNotFound means no tracked meeting instance started on the
// requested date.
var ErrMeetingNotFound = fmt.Errorf("no meeting instance for requested date")

// Meeting is one past instance of the tracked recurring meeting.
type Meeting struct {
	UUID      string    `json:"uuid"`
	StartTime time.Time `json:"start_time"`
}

// Client calls the Zoom REST API with a cached OAuth token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	oauthURL   string
	cfg        config.ZoomConfig
	cache      TokenCache
	loc        *time.Location
	logger     *zap.Logger
}

// NewClient creates a Zoom API client. cache may be nil (a fresh token per
// call); loc defines date matching for meeting instances.
func NewClient(cfg config.ZoomConfig, cache TokenCache, loc *time.Location, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    defaultBaseURL,
		oauthURL:   defaultOAuthURL,
		cfg:        cfg,
		cache:      cache,
		loc:        loc,
		logger:     logger,
	}
}

// SetBaseURLs overrides the API endpoints, for tests.
func (c *Client) SetBaseURLs(apiBase, oauthBase string) {
	c.baseURL = apiBase
	c.oauthURL = oauthBase
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// AccessToken returns a bearer token, from cache when still fresh.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.cache != nil {
		if tok, err := c.cache.Get(ctx); err == nil && tok != "" {
			return tok, nil
		}
	}

	u := fmt.Sprintf("%s?grant_type=account_credentials&account_id=%s", c.oauthURL, url.QueryEscape(c.cfg.AccountID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request status %d", resp.StatusCode)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}

	if c.cache != nil && body.ExpiresIn > 60 {
		// Expire the cached copy a minute early to avoid using a dying token.
		ttl := time.Duration(body.ExpiresIn-60) * time.Second
		if err := c.cache.Set(ctx, body.AccessToken, ttl); err != nil {
			c.logger.Warn("token cache set failed", zap.Error(err))
		}
	}
	return body.AccessToken, nil
}

// MeetingInstances lists past instances of the tracked meeting.
func (c *Client) MeetingInstances(ctx context.Context) ([]Meeting, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/past_meetings/%s/instances", c.baseURL, url.PathEscape(c.cfg.MeetingID))
	var body struct {
		Meetings []Meeting `json:"meetings"`
	}
	if err := c.getJSON(ctx, token, u, &body); err != nil {
		return nil, fmt.Errorf("list meeting instances: %w", err)
	}
	return body.Meetings, nil
}

// FindInstanceForDate returns the instance that started on the given local
// date, or ErrMeetingNotFound.
func (c *Client) FindInstanceForDate(meetings []Meeting, date string) (*Meeting, error) {
	day, err := time.ParseInLocation("2006-01-02", date, c.loc)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}
	for i := range meetings {
		start := meetings[i].StartTime.In(c.loc)
		if start.Year() == day.Year() && start.YearDay() == day.YearDay() {
			return &meetings[i], nil
		}
	}
	return nil, ErrMeetingNotFound
}

type qosParticipant struct {
	UserName string      `json:"user_name"`
	UserQOS  []qosSample `json:"user_qos"`
	QOS      []qosSample `json:"qos"`
}

type qosSample struct {
	VideoInput struct {
		Bitrate string `json:"bitrate"`
	} `json:"video_input"`
}

type qosPage struct {
	Participants  []qosParticipant `json:"participants"`
	NextPageToken string           `json:"next_page_token"`
}

// CameraSamples implements the engine's sample source: resolve the day's
// meeting instance, page through its participant QOS and aggregate camera
// on/off interval counts per participant name.
func (c *Client) CameraSamples(ctx context.Context, date string) (map[string]models.CameraSample, error) {
	meetings, err := c.MeetingInstances(ctx)
	if err != nil {
		return nil, err
	}
	instance, err := c.FindInstanceForDate(meetings, date)
	if err != nil {
		return nil, err
	}
	participants, err := c.fetchQOS(ctx, instance.UUID)
	if err != nil {
		return nil, err
	}

	samples := make(map[string]models.CameraSample, len(participants))
	for _, p := range participants {
		qosList := p.UserQOS
		if len(qosList) == 0 {
			qosList = p.QOS
		}
		sample := samples[p.UserName]
		for _, q := range qosList {
			if parseBitrate(q.VideoInput.Bitrate) > bitrateOnThresholdKbps {
				sample.OnUnits++
			} else {
				sample.OffUnits++
			}
		}
		samples[p.UserName] = sample
	}
	c.logger.Info("camera samples fetched", zap.String("date", date), zap.Int("participants", len(samples)))
	return samples, nil
}

func (c *Client) fetchQOS(ctx context.Context, meetingUUID string) ([]qosParticipant, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	// Meeting UUIDs can contain '/' and must be fully escaped in the path.
	base := fmt.Sprintf("%s/metrics/meetings/%s/participants/qos", c.baseURL, url.QueryEscape(meetingUUID))

	var all []qosParticipant
	nextToken := ""
	for {
		u := fmt.Sprintf("%s?type=past&page_size=%d", base, qosPageSize)
		if nextToken != "" {
			u += "&next_page_token=" + url.QueryEscape(nextToken)
		}
		var page qosPage
		if err := c.getJSON(ctx, token, u, &page); err != nil {
			return nil, fmt.Errorf("fetch qos page: %w", err)
		}
		all = append(all, page.Participants...)
		if page.NextPageToken == "" {
			return all, nil
		}
		nextToken = page.NextPageToken
	}
}

func (c *Client) getJSON(ctx context.Context, token, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d from %s", resp.StatusCode, u)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// parseBitrate reads the numeric prefix of a bitrate string like "128 kbps";
// anything unparseable counts as 0.
func parseBitrate(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}
