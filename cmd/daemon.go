package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/config"
	"github.com/theirongolddev/advisor/internal/daemon"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch month-to-date metrics and serve them over HTTP/SSE",
	Long: "Polls the signed-in user's month-to-date totals and health score.\n" +
		"GET /v1/status returns the latest snapshot; /v1/stream emits change events.",
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	defaults := config.DefaultConfig()
	if cfg, err := config.Load(); err == nil {
		defaults = cfg
	}

	pf := daemonCmd.PersistentFlags()
	pf.StringVar(&flagDaemonAddr, "addr", defaults.Daemon.Addr, "HTTP listen address")
	pf.DurationVar(&flagDaemonInterval, "interval", time.Duration(defaults.Daemon.IntervalSec)*time.Second, "Polling interval")
	pf.StringVar(&flagDaemonPIDFile, "pid-file", filepath.Join(config.DataDir(), "advisord.pid"), "PID file path")
	pf.StringVar(&flagDaemonLogFile, "log-file", filepath.Join(config.DataDir(), "advisord.log"), "Log file path for detached mode")
	pf.IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

func pidFile() daemon.PIDFile {
	return daemon.PIDFile{Path: flagDaemonPIDFile}
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}
	if pid, ok := pidFile().Running(); ok {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	if flagDaemonDetach {
		return startDaemonDetached()
	}
	return runDaemonForeground()
}

func startDaemonDetached() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := slices.DeleteFunc(slices.Clone(os.Args[1:]), func(a string) bool {
		return a == "--detach" || strings.HasPrefix(a, "--detach=")
	})
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagDaemonPIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", flagDaemonAddr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	pf := pidFile()
	if err := pf.Claim(daemon.RuntimeState{
		PID:       os.Getpid(),
		Addr:      flagDaemonAddr,
		StartedAt: time.Now(),
		Backend:   a.svc.Name(),
	}); err != nil {
		return err
	}
	defer pf.Remove()

	src := &daemon.MetricsSource{Identity: a.session, Rows: a.svc}
	if a.cfg.Budget.Monthly != nil {
		src.Budget = decimal.NewFromFloat(*a.cfg.Budget.Monthly)
	}
	svc := daemon.New(daemon.Config{
		Interval:     flagDaemonInterval,
		Addr:         flagDaemonAddr,
		EventsBuffer: flagDaemonEventsBuffer,
		Backend:      a.svc.Name(),
	}, src, a.log)

	fmt.Printf("  advisor daemon listening on http://%s\n", flagDaemonAddr)
	fmt.Printf("  Polling %s every %s\n", a.svc.Name(), flagDaemonInterval)
	fmt.Printf("  Stop with: advisor daemon stop --pid-file %s\n", flagDaemonPIDFile)

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	pf := pidFile()
	pid, alive := pf.Running()
	switch {
	case pid == 0:
		fmt.Println("  Daemon: not running")
		return nil
	case !alive:
		fmt.Printf("  Daemon: not running (removed stale pid %d)\n", pid)
		return nil
	}

	addr := flagDaemonAddr
	if st, err := pf.State(); err == nil && st.Addr != "" {
		addr = st.Addr
	}
	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
	defer cancel()
	st, err := fetchDaemonStatus(ctx, addr)
	if err != nil {
		fmt.Printf("  API status: %v\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Println("  Last poll: pending")
	} else {
		fmt.Printf("  Last poll: %s (%d polls)\n", st.LastPollAt.Local().Format(time.RFC3339), st.PollCount)
	}

	sym := config.DefaultConfig().General.Currency
	if cfg, err := config.Load(); err == nil {
		sym = cfg.General.Currency
	}
	s := st.Summary
	rows := [][]string{
		{"Backend", st.Backend},
		{"Expenses", cli.FormatMoney(s.TotalExpense, sym)},
		{"Income", cli.FormatMoney(s.TotalIncome, sym)},
		{"Net savings", cli.FormatMoney(s.NetSavings, sym)},
		{"Transactions", cli.FormatNumber(int64(s.Transactions))},
		{"Health score", fmt.Sprintf("%d (%s)", s.HealthScore, s.HealthBand)},
	}
	if s.BudgetUsedPercent > 0 {
		rows = append(rows,
			[]string{"Budget used", cli.FormatPercent(s.BudgetUsedPercent)},
			[]string{"Daily burn", cli.FormatMoney(s.DailyBurnRate, sym)})
	}
	fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Metric", "Value"}, Rows: rows}))
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func fetchDaemonStatus(ctx context.Context, addr string) (daemon.Status, error) {
	var st daemon.Status
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, fmt.Errorf("unreachable (%w)", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response (%w)", err)
	}
	return st, nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pid, err := pidFile().Stop(8 * time.Second)
	if err != nil {
		return err
	}
	fmt.Printf("  Stopped daemon (pid %d)\n", pid)
	return nil
}
