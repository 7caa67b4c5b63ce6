package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// RuntimeState describes a running daemon. It is written next to the pid
// file so `daemon status` can find the listen address.
type RuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	Backend   string    `json:"backend"`
}

// PIDFile tracks one daemon process on disk.
type PIDFile struct {
	Path string
}

// StatePath is where the RuntimeState lives.
func (p PIDFile) StatePath() string {
	return p.Path + ".json"
}

// Read returns the recorded pid.
func (p PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", p.Path)
	}
	return pid, nil
}

// Claim records the current process and its state. It fails when another
// live daemon owns the file; a stale file is replaced.
func (p PIDFile) Claim(st RuntimeState) error {
	if pid, err := p.Read(); err == nil && pid != st.PID && ProcessAlive(pid) {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.WriteFile(p.Path, []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.StatePath(), append(data, '\n'), 0o600)
}

// State reads the recorded RuntimeState.
func (p PIDFile) State() (RuntimeState, error) {
	var st RuntimeState
	data, err := os.ReadFile(p.StatePath())
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

// Running returns the pid of a live daemon, clearing a stale file.
func (p PIDFile) Running() (int, bool) {
	pid, err := p.Read()
	if err != nil {
		return 0, false
	}
	if !ProcessAlive(pid) {
		p.Remove()
		return pid, false
	}
	return pid, true
}

// Remove deletes the pid and state files.
func (p PIDFile) Remove() {
	_ = os.Remove(p.Path)
	_ = os.Remove(p.StatePath())
}

// Stop sends SIGTERM to the recorded daemon and waits up to timeout for it
// to exit.
func (p PIDFile) Stop(timeout time.Duration) (int, error) {
	pid, alive := p.Running()
	if !alive {
		return pid, errors.New("daemon is not running")
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return pid, fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return pid, fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !ProcessAlive(pid) {
			p.Remove()
			return pid, nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return pid, fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}

// ProcessAlive reports whether pid names a live process.
func ProcessAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
