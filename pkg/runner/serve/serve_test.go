package serve

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testConfig string

func (c testConfig) BasePath() string { return string(c) }

func TestServeUntilCancelled(t *testing.T) {
	p, err := store.Load(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	listening := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- Serve{
			Service:     &app.Service{Persistence: p},
			Addr:        "127.0.0.1:0",
			OnListening: func(addr net.Addr) { listening <- addr },
			Out:         &out,
		}.Do(ctx)
	}()

	var addr net.Addr
	select {
	case addr = <-listening:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for listener")
	}

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + addr.String() + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Fatal("serve did not stop")
	}
	if !strings.Contains(out.String(), "Serving on http://"+addr.String()) {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestServeRequiresPersistence(t *testing.T) {
	if err := (Serve{}).Do(context.Background()); err == nil {
		t.Fatal("expected error without persistence")
	}
}
