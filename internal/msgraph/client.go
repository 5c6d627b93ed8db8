package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logger"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// Client is an authenticated Microsoft Graph API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Graph API client that persists refreshed tokens in store.
func NewClient(ctx context.Context, tok *oauth2.Token, cfg *oauth2.Config, store TokenStore) *Client {
	ts := cfg.TokenSource(ctx, tok)
	return NewClientWithHTTP(oauth2.NewClient(ctx, &savingTokenSource{ts: ts, store: store}), graphBaseURL)
}

// NewClientWithHTTP uses an already authenticated http.Client against baseURL.
func NewClientWithHTTP(h *http.Client, baseURL string) *Client {
	return &Client{httpClient: h, baseURL: baseURL}
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts    oauth2.TokenSource
	store TokenStore
	last  string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		if err := s.store.Save(tok); err != nil {
			logger.Named("msgraph").Warn().Err(err).Msg("could not save refreshed token")
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}

// CalendarEvent represents a Microsoft Graph calendar event.
type CalendarEvent struct {
	ID          string   `json:"id"`
	Subject     string   `json:"subject"`
	BodyPreview string   `json:"bodyPreview"`
	Categories  []string `json:"categories"`
	IsAllDay    bool     `json:"isAllDay"`
	IsCancelled bool     `json:"isCancelled"`
	Sensitivity string   `json:"sensitivity"` // "normal", "personal", "private", "confidential"
	ShowAs      string   `json:"showAs"`      // "free", "tentative", "busy", "oof", "workingElsewhere", "unknown"
	Start       DateTime `json:"start"`
	End         DateTime `json:"end"`
	Location    struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
}

// DateTime is a Graph dateTimeTimeZone value.
type DateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// calendarViewResponse is the Graph API paged response for calendar events.
type calendarViewResponse struct {
	Value    []CalendarEvent `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

// GetCalendarView fetches calendar events in [from, to) using the calendarView endpoint.
// timezone is an IANA timezone name (e.g. "America/Chicago"); pass "" for UTC.
func (c *Client) GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]CalendarEvent, error) {
	endpoint := fmt.Sprintf("%s/me/calendarView?startDateTime=%s&endDateTime=%s&$top=100",
		c.baseURL,
		url.QueryEscape(from.UTC().Format(time.RFC3339)),
		url.QueryEscape(to.UTC().Format(time.RFC3339)),
	)

	var all []CalendarEvent
	for endpoint != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if timezone != "" {
			req.Header.Set("Prefer", fmt.Sprintf(`outlook.timezone="%s"`, timezone))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("graph API request failed: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("graph API error %d: %s", resp.StatusCode, string(body))
		}

		var page calendarViewResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decoding graph response: %w", err)
		}

		all = append(all, page.Value...)
		endpoint = page.NextLink
	}
	return all, nil
}
