package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/ferrmin/daylog"
)

// RequestSnapshot carries nested data to show how arbitrary field
// values survive the formatting hook.
type RequestSnapshot struct {
	RequestID uint64
	User      string
	Metrics   map[string]float64
}

// logfmtLine renders a record as a single logfmt-style line. Returning
// nil would fall back to the built-in serializer; panics are contained
// and fall back too.
func logfmtLine(ts time.Time, level int64, message string, fields map[string]any) []byte {
	line := fmt.Sprintf("at=%s level=%s msg=%q",
		ts.Format(time.RFC3339), daylog.LevelName(level), message)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line += fmt.Sprintf(" %s=%v", k, fields[k])
	}
	return []byte(line + "\n")
}

func main() {
	fmt.Println("--- custom formatter ---")

	logger, err := daylog.NewBuilder().
		Directory("./formatter_logs").
		ErrorDirectory("./formatter_logs/error").
		FailsafePath("./formatter_failsafe.log").
		EnableConsole(true).
		EnableFileReports(true).
		Formatter(logfmtLine).
		Build()
	if err != nil {
		fmt.Printf("failed to build logger: %v\n", err)
		return
	}

	snapshot := RequestSnapshot{
		RequestID: 9223372036854775807,
		User:      "mira",
		Metrics: map[string]float64{
			"latency_ms":  15.7,
			"queue_depth": 42,
		},
	}

	logger.Info("request completed", "snapshot", snapshot, "region", "eu-west-1")
	logger.Warn("slow request", "latency_ms", 1570)
	logger.Error("request failed", "code", 502)

	logger.Flush(time.Second)
	logger.Shutdown(time.Second)

	fmt.Println("\n--- built-in serializer for comparison ---")

	logger2, err := daylog.NewBuilder().
		Directory("./formatter_logs").
		ErrorDirectory("./formatter_logs/error").
		FailsafePath("./formatter_failsafe.log").
		EnableConsole(true).
		EnableFileReports(true).
		Format("json").
		Build()
	if err != nil {
		fmt.Printf("failed to build logger: %v\n", err)
		return
	}

	logger2.Info("request completed", "snapshot", snapshot, "region", "eu-west-1")
	logger2.Flush(time.Second)
	logger2.Shutdown(time.Second)
}
