package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPIDFileClaimAndState(t *testing.T) {
	p := PIDFile{Path: filepath.Join(t.TempDir(), "run", "advisord.pid")}
	if _, ok := p.Running(); ok {
		t.Fatal("Running before Claim")
	}

	st := RuntimeState{PID: os.Getpid(), Addr: "127.0.0.1:9999", StartedAt: time.Now(), Backend: "local"}
	if err := p.Claim(st); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	pid, ok := p.Running()
	if !ok || pid != os.Getpid() {
		t.Fatalf("Running = %d, %v", pid, ok)
	}
	got, err := p.State()
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if got.Addr != st.Addr || got.Backend != "local" {
		t.Fatalf("State = %+v", got)
	}

	p.Remove()
	if _, err := os.Stat(p.StatePath()); !os.IsNotExist(err) {
		t.Fatalf("state file survived Remove: %v", err)
	}
}

func TestPIDFileRejectsLiveOwner(t *testing.T) {
	p := PIDFile{Path: filepath.Join(t.TempDir(), "advisord.pid")}
	if err := p.Claim(RuntimeState{PID: os.Getpid()}); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	// A second process claiming while this one is alive must fail.
	if err := p.Claim(RuntimeState{PID: os.Getpid() + 1}); err == nil {
		t.Fatal("Claim over a live daemon succeeded")
	}
}

func TestPIDFileInvalidContents(t *testing.T) {
	p := PIDFile{Path: filepath.Join(t.TempDir(), "advisord.pid")}
	if err := os.WriteFile(p.Path, []byte("nope\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Read(); err == nil {
		t.Fatal("Read accepted a non-numeric pid")
	}
	if _, ok := p.Running(); ok {
		t.Fatal("Running with an invalid pid file")
	}
}
