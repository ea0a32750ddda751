package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/xnotid/xnotid/internal/config"
	"github.com/xnotid/xnotid/internal/store"
)

var logFlags struct {
	path  string
	lines int
	event string
	raw   bool
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent entries from the notification lifecycle log",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := logFlags.path
		if path == "" {
			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			path = cfg.Log.Path
		}

		entries, err := readLogTail(path, logFlags.lines, logFlags.event)
		if err != nil {
			return err
		}

		for _, e := range entries {
			if logFlags.raw {
				line, err := json.Marshal(e)
				if err != nil {
					return err
				}
				fmt.Println(string(line))
				continue
			}
			fmt.Println(formatLogEntry(e))
		}
		return nil
	},
}

// readLogTail returns the last n entries of the JSONL log, oldest
// first, optionally filtered by event name. Unparseable lines are
// skipped; the log is append-only and a torn final line is expected
// if the daemon is mid-write.
func readLogTail(path string, n int, event string) ([]store.AuditEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening log %s: %w", path, err)
	}
	defer f.Close()

	var entries []store.AuditEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var e store.AuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		if event != "" && e.Event != event {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log %s: %w", path, err)
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

func formatLogEntry(e store.AuditEntry) string {
	when := e.Timestamp
	if ts, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
		when = humanize.Time(ts)
	}

	switch e.Event {
	case store.EventReceived:
		return fmt.Sprintf("%-14s received #%d %s: %s", when, e.NotificationID, e.AppName, e.Summary)
	case store.EventAction:
		return fmt.Sprintf("%-14s action   #%d key=%s", when, e.NotificationID, e.ActionKey)
	default:
		return fmt.Sprintf("%-14s %-8s #%d", when, e.Event, e.NotificationID)
	}
}

func init() {
	logCmd.Flags().StringVar(&logFlags.path, "path", "", "Log file path (default: configured log path)")
	logCmd.Flags().IntVarP(&logFlags.lines, "lines", "n", 20, "Number of entries to show (0 = all)")
	logCmd.Flags().StringVarP(&logFlags.event, "event", "e", "", "Filter by event name (received, expired, dismissed, closed, action)")
	logCmd.Flags().BoolVar(&logFlags.raw, "raw", false, "Print raw JSON lines")
	rootCmd.AddCommand(logCmd)
}
