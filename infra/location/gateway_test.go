package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGateway_CurrentPosition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/position" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"granted":true,"lat":-33.865,"lon":151.21}`))
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, time.Second)
	ok, err := g.RequestPermission(context.Background())
	if err != nil || !ok {
		t.Fatalf("permission: ok=%v err=%v", ok, err)
	}
	pos, err := g.CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	if pos.Lat != -33.865 || pos.Lon != 151.21 {
		t.Fatalf("unexpected position %v", pos)
	}
}

func TestGateway_Denied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"granted":false}`))
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, time.Second)
	if _, err := g.CurrentPosition(context.Background()); err == nil {
		t.Fatal("expected error when access not granted")
	}
}

func TestGateway_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, time.Second)
	if _, err := g.RequestPermission(context.Background()); err == nil {
		t.Fatal("expected error on 500")
	}
}
