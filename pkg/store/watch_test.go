package store

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"

	"tableflip.dev/a11yreq/pkg/clause"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func TestPersistenceWatchEmitsKindChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := p.Watch(ctx)
	if err != nil {
		cancel()
		t.Fatalf("watch: %v", err)
	}
	defer func() {
		cancel()
		for range ch {
		}
	}()

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	r := &clause.Record{Number: "5.1", Name: "Usage without vision"}
	if err := p.StoreClause(r); err != nil {
		t.Fatalf("store clause: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				t.Fatal("watch channel closed early")
			}
			if evt.Kind == "" {
				continue
			}
			if evt.Kind != KindClause {
				t.Fatalf("expected kind %q, got %q", KindClause, evt.Kind)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for clause change event")
		}
	}
}

func TestKindForPath(t *testing.T) {
	p := &persistence{basePath: "/tmp/a11yreq"}
	tests := map[string]Kind{
		"/tmp/a11yreq/clause/abc":  KindClause,
		"/tmp/a11yreq/preset":      KindPreset,
		"/tmp/a11yreq/info/x/y":    KindInfo,
		"/tmp/a11yreq":             "",
		"/tmp/a11yreq/other/thing": "",
	}
	for path, want := range tests {
		if got := p.kindForPath(path); got != want {
			t.Errorf("kindForPath(%q) = %q, want %q", path, got, want)
		}
	}
}
