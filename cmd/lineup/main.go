// Command lineup shows what is playing now, room timetables and DJ search
// results from a lineup server, and keeps a synced list of liked sets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"dj-lineup/internal/lineupapi"
	"dj-lineup/internal/localstate"
	"dj-lineup/internal/platform/config"
	"dj-lineup/internal/platform/logger"
)

const usage = `usage: lineup [flags] <command> [args]

commands:
  now             what every room is playing
  room <name>     timetable of one room
  search <query>  find DJs by name
  like <room>     like or unlike the set playing in a room
  likes           list liked sets

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	_ = config.Load()

	fs := flag.NewFlagSet("lineup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	server := fs.String("server", config.GetEnv("LINEUP_SERVER", ""), "lineup server address (host:port or URL)")
	statePath := fs.String("state", config.GetEnv("LINEUP_STATE", localstate.DefaultPath()), "local state file")
	at := fs.String("at", "", `reference time, e.g. "tomorrow 23:00" (default now)`)
	watch := fs.Bool("watch", false, "refresh now and room views every minute")
	logLevel := fs.String("log-level", config.GetEnv("LOG_LEVEL", "warn"), "log level")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	log := logger.NewWithWriter(stderr, *logLevel, "text")

	st, err := localstate.Load(*statePath)
	if err != nil {
		fmt.Fprintf(stderr, "lineup: %v\n", err)
		return 1
	}
	addr := *server
	if addr == "" {
		addr = st.Server
	}
	client, err := lineupapi.NewClient(addr)
	if err != nil {
		fmt.Fprintf(stderr, "lineup: %v\n", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := &app{
		api:       client,
		statePath: *statePath,
		state:     st,
		at:        *at,
		out:       stdout,
		styles:    defaultTheme().styles(),
		log:       log,
		now:       time.Now,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if *watch && (cmd == "now" || cmd == "room") {
		err = a.watch(ctx, cmd, rest)
	} else {
		err = a.dispatch(ctx, cmd, rest)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "lineup: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}
