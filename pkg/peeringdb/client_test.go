package peeringdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maxpfx-net/maxpfx/pkg/util"
)

func registryStub(t *testing.T, networks map[string]Counts) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		asn := r.URL.Query().Get("asn")
		counts, ok := networks[asn]
		if !ok {
			// PeeringDB returns an empty data array for unknown ASNs.
			fmt.Fprint(w, `{"data":[]}`)
			return
		}
		fmt.Fprintf(w, `{"data":[{"asn":%s,"info_prefixes4":%d,"info_prefixes6":%d}]}`,
			asn, counts.Prefixes4, counts.Prefixes6)
	}))
}

func TestLookupASN(t *testing.T) {
	srv := registryStub(t, map[string]Counts{
		"65501": {Prefixes4: 4000, Prefixes6: 200},
	})
	defer srv.Close()

	client := NewClient(srv.URL)
	counts, err := client.LookupASN(context.Background(), 65501)
	if err != nil {
		t.Fatalf("LookupASN: %v", err)
	}
	if counts.Prefixes4 != 4000 || counts.Prefixes6 != 200 {
		t.Errorf("counts = %+v", counts)
	}
}

func TestLookupASNNotFound(t *testing.T) {
	srv := registryStub(t, nil)
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.LookupASN(context.Background(), 64999)
	if !errors.Is(err, util.ErrASNNotFound) {
		t.Errorf("want ErrASNNotFound, got %v", err)
	}
}

func TestLookupASNHTTP404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.LookupASN(context.Background(), 65501)
	if !errors.Is(err, util.ErrASNNotFound) {
		t.Errorf("want ErrASNNotFound, got %v", err)
	}
}

func TestLookupASNServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.LookupASN(context.Background(), 65501)
	if err == nil {
		t.Fatal("server error should propagate")
	}
	if errors.Is(err, util.ErrASNNotFound) {
		t.Error("server error must not look like not-found")
	}
}

func TestLookupASNBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.LookupASN(context.Background(), 65501); err == nil {
		t.Error("malformed response should error")
	}
}

func TestLookupASNContextCancelled(t *testing.T) {
	srv := registryStub(t, map[string]Counts{"65501": {Prefixes4: 1}})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := NewClient(srv.URL)
	if _, err := client.LookupASN(ctx, 65501); err == nil {
		t.Error("cancelled context should error")
	}
}
