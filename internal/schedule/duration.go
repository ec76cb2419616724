package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// DurationUnavailable is reported when either time cannot be parsed.
const DurationUnavailable = "N/A"

const minutesPerDay = 24 * 60

// CalculateDuration formats the time between two times of day as "Hh Mm".
// An end earlier than the start is taken to be on the next day.
func CalculateDuration(start, end string) string {
	minutes, err := DurationMinutes(start, end)
	if err != nil {
		return DurationUnavailable
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func DurationMinutes(start, end string) (int, error) {
	from, err := ParseTimeOfDay(start)
	if err != nil {
		return 0, err
	}
	to, err := ParseTimeOfDay(end)
	if err != nil {
		return 0, err
	}
	diff := to - from
	if diff < 0 {
		diff += minutesPerDay
	}
	return diff, nil
}

// ParseTimeOfDay returns minutes after midnight for "HH:MM", "HH:MM:SS" or a
// 12-hour clock with an AM/PM suffix ("9:15 PM").
func ParseTimeOfDay(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}

	parts := strings.Split(fields[0], ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(parts[2]); err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("invalid seconds in %q", s)
		}
	}

	if len(fields) == 1 {
		if hours < 0 || hours > 23 {
			return 0, fmt.Errorf("invalid hours in %q", s)
		}
		return hours*60 + minutes, nil
	}

	if hours < 1 || hours > 12 {
		return 0, fmt.Errorf("invalid 12-hour clock hours in %q", s)
	}
	switch strings.ToUpper(fields[1]) {
	case "AM":
		if hours == 12 {
			hours = 0
		}
	case "PM":
		if hours != 12 {
			hours += 12
		}
	default:
		return 0, fmt.Errorf("invalid meridiem in %q", s)
	}
	return hours*60 + minutes, nil
}
