package tle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetcherFetch(t *testing.T) {
	body := issName + "\n" + issLine1 + "\n" + issLine2 + "\n"
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL + "/gp.php?CATNR=%d&FORMAT=tle")
	data, err := f.Fetch(context.Background(), 25544)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != body {
		t.Error("fetched body differs")
	}
	if !strings.Contains(gotPath, "CATNR=25544") {
		t.Errorf("request path %q missing catalog number", gotPath)
	}
}

func TestFetcherNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL + "/gp.php?CATNR=%d")
	if _, err := f.Fetch(context.Background(), 25544); err == nil {
		t.Error("expected error on 403 response")
	}
}

func TestFetcherContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(srv.URL + "/gp.php?CATNR=%d")
	if _, err := f.Fetch(ctx, 25544); err == nil {
		t.Error("expected error from cancelled context")
	}
}
