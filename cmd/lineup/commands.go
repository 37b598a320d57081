package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"dj-lineup/internal/lineup"
	"dj-lineup/internal/lineupapi"
	"dj-lineup/internal/localstate"

	"github.com/ijt/go-anytime"
)

var errUsage = errors.New("usage")

type app struct {
	api       lineupapi.Fetcher
	statePath string
	state     localstate.State
	at        string
	out       io.Writer
	styles    styles
	log       *slog.Logger
	now       func() time.Time
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "now":
		return a.cmdNow(ctx)
	case "room":
		if len(args) == 0 {
			return fmt.Errorf("%w: room <name>", errUsage)
		}
		return a.cmdRoom(ctx, strings.Join(args, " "))
	case "search":
		return a.cmdSearch(ctx, strings.Join(args, " "))
	case "like":
		if len(args) == 0 {
			return fmt.Errorf("%w: like <room>", errUsage)
		}
		return a.cmdLike(ctx, strings.Join(args, " "))
	case "likes":
		return a.cmdLikes()
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// watch redraws cmd once a minute, on the minute, until ctx ends.
func (a *app) watch(ctx context.Context, cmd string, args []string) error {
	for {
		fmt.Fprint(a.out, "\033[H\033[2J")
		if err := a.dispatch(ctx, cmd, args); err != nil {
			a.log.Warn("refresh failed", slog.String("error", err.Error()))
		}
		now := a.now()
		wait := now.Truncate(time.Minute).Add(time.Minute).Sub(now)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// load fetches the lineup and resolves the reference instant in the event's
// time zone.
func (a *app) load(ctx context.Context) (lineup.Data, time.Time, error) {
	data, err := a.api.FetchLineup(ctx)
	if err != nil {
		return lineup.Data{}, time.Time{}, fmt.Errorf("fetch lineup: %w", err)
	}
	loc := time.Local
	if data.Meta.TimeZone != "" {
		if l, err := time.LoadLocation(data.Meta.TimeZone); err == nil {
			loc = l
		} else {
			a.log.Debug("unknown time zone", slog.String("zone", data.Meta.TimeZone))
		}
	}
	now := a.now().In(loc)
	if a.at == "" {
		return data, now, nil
	}
	at, err := anytime.Parse(a.at, now)
	if err != nil {
		return lineup.Data{}, time.Time{}, fmt.Errorf("%w: cannot parse -at %q", errUsage, a.at)
	}
	return data, at.In(loc), nil
}

func (a *app) cmdNow(ctx context.Context) error {
	data, now, err := a.load(ctx)
	if err != nil {
		return err
	}
	situations := lineup.FormatSituations(lineup.ComputeRoomStates(data.Sets, now), data.Meta, a.state.Likes, now)
	finished := lineup.Finished(data.Sets, now, lineup.FinishedGrace)
	fmt.Fprint(a.out, a.styles.renderNow(data.Meta, situations, now, finished))
	return nil
}

func (a *app) cmdRoom(ctx context.Context, name string) error {
	data, now, err := a.load(ctx)
	if err != nil {
		return err
	}
	room, ok := findRoom(data.Meta.Rooms, name)
	if !ok {
		return fmt.Errorf("%w %q, rooms are: %s", lineup.ErrUnknownRoom, name, strings.Join(data.Meta.Rooms, ", "))
	}
	sched := lineup.BuildRoomSchedule(data.Sets, room, data.Meta.BeginningSchedule, a.state.Likes, now)
	fmt.Fprint(a.out, a.styles.renderRoom(data.Meta, sched, now))
	return nil
}

func (a *app) cmdSearch(ctx context.Context, query string) error {
	data, now, err := a.load(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, a.styles.renderSearch(query, lineup.Search(data.Sets, query), now))
	return nil
}

// cmdLike toggles the set playing in room, then replaces the local list with
// whatever the server kept. When the sync fails the toggled list is still
// saved locally and the error is returned.
func (a *app) cmdLike(ctx context.Context, name string) error {
	data, now, err := a.load(ctx)
	if err != nil {
		return err
	}
	room, ok := findRoom(data.Meta.Rooms, name)
	if !ok {
		return fmt.Errorf("%w %q", lineup.ErrUnknownRoom, name)
	}

	var like *lineup.Like
	for _, rs := range lineup.FormatSituations(lineup.ComputeRoomStates(data.Sets, now), data.Meta, a.state.Likes, now) {
		if rs.Room == room {
			like = rs.Like
		}
	}
	if like == nil {
		return fmt.Errorf("nothing to like in %s right now", room)
	}

	likes := lineup.Toggle(a.state.Likes, *like)
	liked := lineup.IsLiked(likes, *like)

	token, synced, syncErr := a.api.SyncLikes(ctx, a.state.Token, likes)
	if syncErr == nil {
		a.state.Token = token
		likes = synced
	}
	a.state.Likes = likes
	if err := localstate.Save(a.statePath, a.state); err != nil {
		return err
	}
	if syncErr != nil {
		return fmt.Errorf("saved locally, sync failed: %w", syncErr)
	}

	fmt.Fprintln(a.out, a.styles.renderToggle(*like, liked))
	return nil
}

func (a *app) cmdLikes() error {
	fmt.Fprint(a.out, a.styles.renderLikes(a.state.Likes, a.now()))
	return nil
}

// findRoom matches name against rooms ignoring case.
func findRoom(rooms []string, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, r := range rooms {
		if strings.EqualFold(r, name) {
			return r, true
		}
	}
	return "", false
}
