package main

import (
	"fmt"
	"strings"
	"time"

	"dj-lineup/internal/lineup"

	"github.com/charmbracelet/lipgloss"
)

const (
	heart         = "♥"
	defaultMarker = "▶"
)

// theme is the terminal palette, same hex colors as the web app.
type theme struct {
	Background string
	Text       string
	Muted      string
	Accent     string
	Success    string
	Danger     string
}

func defaultTheme() theme {
	return theme{
		Background: "#222123",
		Text:       "#ecebe8",
		Muted:      "#8a8790",
		Accent:     "#f2a65a",
		Success:    "#7bc96f",
		Danger:     "#e0605e",
	}
}

type styles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Open    lipgloss.Style
	Closed  lipgloss.Style
	Liked   lipgloss.Style
	Marker  lipgloss.Style
}

func (t theme) styles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true).
			MarginBottom(1),
		Heading: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Bold(true).
			Underline(true),
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Open: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		Closed: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Liked: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
		Marker: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
	}
}

// renderNow prints one line per room. Once the event is finished the
// closing text replaces the text shown under the map.
func (s styles) renderNow(meta lineup.Meta, situations []lineup.RoomSituation, now time.Time, finished bool) string {
	var b strings.Builder
	b.WriteString(s.Title.Render(meta.Title+" · "+now.Format("Monday 15:04")) + "\n")

	for _, rs := range situations {
		line := s.Open.Render(rs.Situation)
		if rs.Closed {
			line = s.Closed.Render(rs.Situation)
		}
		if rs.Liked {
			line += " " + s.Liked.Render(heart)
		}
		b.WriteString(line + "\n")
	}
	switch {
	case finished && meta.NowTextWhenFinished != "":
		b.WriteString("\n" + s.Muted.Render(meta.NowTextWhenFinished) + "\n")
	case !finished && meta.NowTextAfterMap != "":
		b.WriteString("\n" + s.Muted.Render(meta.NowTextAfterMap) + "\n")
	}
	return b.String()
}

func (s styles) renderRoom(meta lineup.Meta, sched lineup.RoomSchedule, now time.Time) string {
	var b strings.Builder
	status := s.Closed.Render("closed")
	if sched.Open {
		status = s.Open.Render("open")
	}
	b.WriteString(s.Title.Render(sched.Room) + " " + status + "\n")

	marker := meta.RoomYouAreHereEmoticon
	if marker == "" {
		marker = defaultMarker
	}
	for _, day := range sched.Days {
		b.WriteString(s.Heading.Render(day.Label) + "\n")
		for _, e := range day.Entries {
			b.WriteString(s.entry(e, marker, now) + "\n")
		}
	}
	for _, e := range sched.Trailer {
		b.WriteString(s.entry(e, marker, now) + "\n")
	}
	return b.String()
}

func (s styles) entry(e lineup.ScheduleEntry, marker string, now time.Time) string {
	set := e.Set
	switch set.Kind {
	case lineup.KindMarker:
		return s.Marker.Render(fmt.Sprintf("  %s %s", marker, hhmm(set.Start, now)))
	case lineup.KindGap:
		return s.Muted.Render(fmt.Sprintf("  %s %s", hhmm(set.Start, now), set.DJ))
	}
	line := fmt.Sprintf("  %s-%s %s", hhmm(set.Start, now), hhmm(set.End, now), set.DJ)
	if set.Contains(now) {
		line = s.Open.Render(line)
	} else {
		line = s.Text.Render(line)
	}
	if e.Liked {
		line += " " + s.Liked.Render(heart)
	}
	for _, l := range set.Links() {
		line += " " + s.Muted.Render(l.Service)
	}
	return line
}

func (s styles) renderSearch(query string, sets []lineup.Set, now time.Time) string {
	if len(sets) == 0 {
		return s.Muted.Render(fmt.Sprintf("no DJ matching %q", query)) + "\n"
	}
	var b strings.Builder
	for _, set := range sets {
		when := set.Start.In(now.Location()).Format("Monday 15:04")
		b.WriteString(s.Text.Render(set.DJ) + " " + s.Muted.Render(set.Room+", "+when) + "\n")
		for _, l := range set.Links() {
			b.WriteString(s.Muted.Render("  "+l.Service+": "+l.URL) + "\n")
		}
	}
	return b.String()
}

func (s styles) renderLikes(likes []lineup.Like, now time.Time) string {
	if len(likes) == 0 {
		return s.Muted.Render("no liked sets yet") + "\n"
	}
	var b strings.Builder
	for _, l := range likes {
		when := l.Started.In(now.Location()).Format("Mon 02 Jan 15:04")
		b.WriteString(s.Liked.Render(heart) + " " + s.Text.Render(l.DJ) + " " +
			s.Muted.Render(l.Room+", "+when+", "+l.Title) + "\n")
	}
	return b.String()
}

func (s styles) renderToggle(like lineup.Like, liked bool) string {
	if liked {
		return s.Liked.Render(heart) + " " + s.Text.Render("liked "+like.DJ+" in "+like.Room)
	}
	return s.Muted.Render("unliked " + like.DJ + " in " + like.Room)
}

func hhmm(t, now time.Time) string {
	return t.In(now.Location()).Format("15:04")
}
