// Package dateparse resolves natural-language due phrases like
// "tomorrow 5pm", "next monday 8am" or "in 2 hours" into absolute
// timestamps in a configured timezone.
package dateparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable reports a phrase the resolver does not recognize.
// Callers distinguish this from "no phrase supplied at all".
var ErrUnparseable = errors.New("could not parse date/time phrase")

const (
	defaultHour   = 9
	defaultMinute = 0
)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var (
	relativeRe = regexp.MustCompile(`in\s+(\d+)\s*(minutes|minute|min|hours|hour|days|day|weeks|week)`)
	nextRe     = regexp.MustCompile(`^next\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)(?:\s+(.*))?$`)
	isoRe      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:\s+(\d{1,2})(?::(\d{2}))?)?`)
	slashRe    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:\s+(\d{1,2}(?::\d{2})?\s*(?:am|pm)?))?`)
	clockRe    = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)
	hhmmRe     = regexp.MustCompile(`^(\d{2})(\d{2})$`)
)

// Resolve turns phrase into an absolute timestamp, interpreting
// calendar expressions in loc relative to now. Past results are
// returned as-is; flagging them is the caller's concern.
func Resolve(phrase string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	s := strings.ToLower(strings.TrimSpace(phrase))
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty phrase", ErrUnparseable)
	}

	if m := relativeRe.FindStringSubmatch(s); m != nil {
		qty, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, phrase)
		}
		return now.Add(time.Duration(qty) * unitDuration(m[2])), nil
	}

	if base, rest, ok := dayAnchor(s, now); ok {
		hh, mm := defaultHour, defaultMinute
		if rest != "" {
			if h, m, err := parseTimePart(rest); err == nil {
				hh, mm = h, m
			}
		}
		return at(base, hh, mm, loc), nil
	}

	if m := nextRe.FindStringSubmatch(s); m != nil {
		hh, mm := defaultHour, defaultMinute
		if rest := strings.TrimSpace(m[2]); rest != "" {
			h, min, err := parseTimePart(rest)
			if err != nil {
				return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, phrase)
			}
			hh, mm = h, min
		}
		return at(nextWeekday(now, weekdays[m[1]]), hh, mm, loc), nil
	}

	if m := isoRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		hh, mm := defaultHour, defaultMinute
		if m[4] != "" {
			hh, _ = strconv.Atoi(m[4])
		}
		if m[5] != "" {
			mm, _ = strconv.Atoi(m[5])
		}
		if !validDate(year, month, day) || hh > 23 || mm > 59 {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, phrase)
		}
		return time.Date(year, time.Month(month), day, hh, mm, 0, 0, loc), nil
	}

	if m := slashRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := now.Year()
		if month < int(now.Month()) || (month == int(now.Month()) && day < now.Day()) {
			year++
		}
		hh, mm := defaultHour, defaultMinute
		if m[3] != "" {
			h, min, err := parseTimePart(m[3])
			if err != nil {
				return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, phrase)
			}
			hh, mm = h, min
		}
		if !validDate(year, month, day) {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, phrase)
		}
		return time.Date(year, time.Month(month), day, hh, mm, 0, 0, loc), nil
	}

	// Bare time of day: today, rolling forward a day only when the
	// result is strictly before now. A phrase landing exactly on now
	// stays today.
	if hh, mm, err := parseTimePart(s); err == nil {
		resolved := at(now, hh, mm, loc)
		if resolved.Before(now) {
			resolved = resolved.AddDate(0, 0, 1)
		}
		return resolved, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, phrase)
}

// dayAnchor handles the today/tomorrow/<weekday> prefixes. A bare
// weekday always means the next occurrence, never today.
func dayAnchor(s string, now time.Time) (base time.Time, rest string, ok bool) {
	switch {
	case strings.HasPrefix(s, "today"):
		return now, strings.TrimSpace(strings.TrimPrefix(s, "today")), true
	case strings.HasPrefix(s, "tomorrow"):
		return now.AddDate(0, 0, 1), strings.TrimSpace(strings.TrimPrefix(s, "tomorrow")), true
	}
	for name, wd := range weekdays {
		if strings.HasPrefix(s, name) {
			return nextWeekday(now, wd), strings.TrimSpace(strings.TrimPrefix(s, name)), true
		}
	}
	return time.Time{}, "", false
}

// parseTimePart understands "5pm", "5:30pm", "17:00" and "0915".
func parseTimePart(t string) (hour, minute int, err error) {
	t = strings.ToLower(strings.TrimSpace(t))

	if m := clockRe.FindStringSubmatch(t); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm := 0
		if m[2] != "" {
			mm, _ = strconv.Atoi(m[2])
		}
		switch m[3] {
		case "am":
			if hh == 12 {
				hh = 0
			}
		case "pm":
			if hh != 12 {
				hh += 12
			}
		}
		if hh > 23 || mm > 59 {
			return 0, 0, fmt.Errorf("%w: time %q out of range", ErrUnparseable, t)
		}
		return hh, mm, nil
	}

	if m := hhmmRe.FindStringSubmatch(t); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if hh > 23 || mm > 59 {
			return 0, 0, fmt.Errorf("%w: time %q out of range", ErrUnparseable, t)
		}
		return hh, mm, nil
	}

	return 0, 0, fmt.Errorf("%w: unrecognized time %q", ErrUnparseable, t)
}

// unitDuration maps a relative-phrase unit matched by relativeRe to
// its duration.
func unitDuration(unit string) time.Duration {
	switch unit {
	case "minutes", "minute", "min":
		return time.Minute
	case "hours", "hour":
		return time.Hour
	case "days", "day":
		return 24 * time.Hour
	case "weeks", "week":
		return 7 * 24 * time.Hour
	}
	return 0
}

func nextWeekday(base time.Time, target time.Weekday) time.Time {
	daysAhead := (int(target) - int(base.Weekday()) + 7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}
	return base.AddDate(0, 0, daysAhead)
}

func at(base time.Time, hour, minute int, loc *time.Location) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, loc)
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && int(t.Month()) == month
}
