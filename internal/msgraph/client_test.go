package msgraph_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/msgraph"
)

func TestGetCalendarViewFollowsPages(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Prefer"); got != `outlook.timezone="America/Denver"` {
			t.Errorf("Prefer = %q", got)
		}
		page := map[string]any{}
		if r.URL.Query().Get("page") == "" {
			page["value"] = []msgraph.CalendarEvent{makeEvent("1", "Driving", "2026-02-27T06:00:00", "2026-02-27T10:00:00")}
			page["@odata.nextLink"] = srv.URL + "/me/calendarView?page=2"
		} else {
			page["value"] = []msgraph.CalendarEvent{makeEvent("2", "Sleeper", "2026-02-27T20:00:00", "2026-02-28T04:00:00")}
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	from := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	events, err := c.GetCalendarView(context.Background(), from, from.AddDate(0, 0, 1), "America/Denver")
	if err != nil {
		t.Fatalf("GetCalendarView: %v", err)
	}
	if len(events) != 2 || events[0].ID != "1" || events[1].ID != "2" {
		t.Errorf("events = %+v", events)
	}
}

func TestGetCalendarViewError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"InvalidAuthenticationToken"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	if _, err := c.GetCalendarView(context.Background(), time.Now(), time.Now(), ""); err == nil {
		t.Fatal("expected error for 401")
	}
}

func TestTokenStore(t *testing.T) {
	base := t.TempDir()
	store := msgraph.NewTokenStore(base)
	if store.Path != filepath.Join(base, "auth", "msgraph_tokens.json") {
		t.Errorf("Path = %q", store.Path)
	}

	tok, err := store.Load()
	if err != nil || tok != nil {
		t.Fatalf("Load on empty store = %v, %v", tok, err)
	}

	want := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AccessToken != "a" || got.RefreshToken != "r" {
		t.Errorf("Load = %+v", got)
	}
}
