package heron

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func spaceTrackConfig(baseURL string) Config {
	var cfg Config
	cfg.SpaceTrack.BaseURL = baseURL
	cfg.SpaceTrack.Identity = "ops@example.org"
	cfg.SpaceTrack.Password = "hunter2"
	return cfg
}

func TestSpaceTrackLatestTLE(t *testing.T) {
	var loggedIn bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/ajaxauth/login":
			if r.Method != http.MethodPost {
				t.Errorf("login method %s", r.Method)
			}
			if err := r.ParseForm(); err != nil {
				t.Errorf("err %s", err)
			}
			if r.PostForm.Get("identity") != "ops@example.org" || r.PostForm.Get("password") != "hunter2" {
				t.Errorf("credentials not forwarded: %v", r.PostForm)
			}
			loggedIn = true
			http.SetCookie(w, &http.Cookie{Name: "spacetrack_session", Value: "deadbeef", Path: "/"})
			fmt.Fprint(w, `""`)
		case strings.HasPrefix(r.URL.Path, "/basicspacedata/query/"):
			if !loggedIn {
				t.Error("query before login")
			}
			if c, err := r.Cookie("spacetrack_session"); err != nil || c.Value != "deadbeef" {
				t.Error("session cookie not carried over")
			}
			if !strings.Contains(r.URL.Path, "/NORAD_CAT_ID/25544/") {
				t.Errorf("unexpected query path %q", r.URL.Path)
			}
			fmt.Fprintf(w, "%s\r\n%s\r\n", issLine1, issLine2)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := NewSpaceTrackClient(spaceTrackConfig(srv.URL), nil)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	tle, err := c.LatestTLE(context.Background(), 25544)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if tle.Norad != "25544" || tle.SetNum != 999 {
		t.Fatalf("unexpected record: %+v", tle)
	}
}

func TestSpaceTrackThreeLineFormat(t *testing.T) {
	// Some query classes return a name line ahead of the element lines.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ajaxauth/login" {
			fmt.Fprint(w, `""`)
			return
		}
		fmt.Fprintf(w, "ISS (ZARYA)\r\n%s\r\n%s\r\n", issLine1, issLine2)
	}))
	defer srv.Close()

	c, err := NewSpaceTrackClient(spaceTrackConfig(srv.URL), nil)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	tle, err := c.LatestTLE(context.Background(), 25544)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if tle.Norad != "25544" {
		t.Fatalf("name line not dropped: %+v", tle)
	}
}

func TestSpaceTrackErrors(t *testing.T) {
	// Missing credentials.
	var bare Config
	bare.SpaceTrack.BaseURL = DefaultSpaceTrackURL
	if _, err := NewSpaceTrackClient(bare, nil); err == nil {
		t.Fatal("empty credentials must not build a client")
	}

	// Login rejection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	c, err := NewSpaceTrackClient(spaceTrackConfig(srv.URL), nil)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if _, err = c.LatestTLE(context.Background(), 25544); err == nil {
		t.Fatal("rejected login must fail the fetch")
	}

	// Empty result for an unknown catalog number.
	srvEmpty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ajaxauth/login" {
			fmt.Fprint(w, `""`)
			return
		}
		fmt.Fprint(w, "")
	}))
	defer srvEmpty.Close()
	c, err = NewSpaceTrackClient(spaceTrackConfig(srvEmpty.URL), nil)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if _, err = c.LatestTLE(context.Background(), 99999); err == nil {
		t.Fatal("empty response must fail the fetch")
	}
}

func TestSplitTLELines(t *testing.T) {
	raw := "\r\n" + issLine1 + " \r\n" + issLine2 + "\r\n\r\n"
	lines := splitTLELines(raw)
	if len(lines) != 2 || lines[0] != issLine1 || lines[1] != issLine2 {
		t.Fatalf("got %d line(s): %q", len(lines), lines)
	}
	withName := "ISS (ZARYA)\n" + issLine1 + "\n" + issLine2 + "\n"
	lines = splitTLELines(withName)
	if len(lines) != 2 || lines[0] != issLine1 {
		t.Fatalf("name line not dropped: %q", lines)
	}
}
