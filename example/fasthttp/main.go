package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ferrmin/daylog"
	"github.com/ferrmin/daylog/compat"
	"github.com/valyala/fasthttp"
)

var logger *daylog.Logger

// serverLogLevel maps fasthttp's known plain-text messages onto levels
// before the generic keyword scan runs.
func serverLogLevel(msg string) int64 {
	switch {
	case strings.Contains(msg, "concurrent connections are served"):
		return daylog.LevelWarn
	case strings.Contains(msg, "error when serving connection"):
		return daylog.LevelError
	default:
		return compat.DetectLogLevel(msg)
	}
}

func greetingFor(path string) (string, error) {
	if strings.HasPrefix(path, "/nope") {
		return "", fmt.Errorf("no greeting for %q", path)
	}
	return "Hello, visitor!", nil
}

func handle(ctx *fasthttp.RequestCtx) {
	// Wrap records start, outcome and duration of the lookup without any
	// bookkeeping in the handler itself
	lookup := daylog.Wrap(logger, func() (string, error) {
		return greetingFor(string(ctx.Path()))
	}, daylog.WithName("greeting_lookup"), daylog.WithIgnoreErrors())

	greeting, _ := lookup()
	if greeting == "" {
		greeting = "Hello, visitor!"
	}

	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "%s Path: %s\n", greeting, ctx.Path())
}

func main() {
	var err error
	logger, err = daylog.NewBuilder().
		Directory("/var/log/greeter").
		ErrorDirectory("/var/log/greeter/error").
		FailsafePath("/var/log/greeter-failsafe.log").
		LevelString("info").
		EnableFileReports(true).
		BufferSize(2048).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	server := &fasthttp.Server{
		Name:         "greeter",
		Handler:      handle,
		Logger:       compat.NewFastHTTPAdapter(logger, compat.WithLevelDetector(serverLogLevel)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	fmt.Println("listening on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}
