package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// GameDateCutoffHour is the hour before which a game still counts toward
// the previous calendar day; late-night pods regularly run past midnight.
const GameDateCutoffHour = 7

// DefaultGameDate returns the calendar day a game started now belongs to,
// normalized to midnight.
func DefaultGameDate(now time.Time) time.Time {
	if now.Hour() < GameDateCutoffHour {
		now = now.AddDate(0, 0, -1)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// NextGameID derives the id for a new game from the ids and play dates
// already on the sheet. Ids are shaped SSS-LNN: a zero-padded solstice
// number, a session letter, and a two-digit game number. A session covers
// at most two consecutive play dates; a third consecutive date or any gap
// starts the next session, and letters roll from Z into the next solstice.
func NextGameID(existingIDs []string, existingDates []time.Time, gameDate time.Time) string {
	solstice, letter := currentSolsticeAndSession(existingIDs)
	if startsNewSession(existingDates, gameDate) {
		solstice, letter = nextSession(solstice, letter)
	}

	prefix := fmt.Sprintf("%03d-%c", solstice, letter)
	maxGame := 0
	for _, id := range existingIDs {
		rest, ok := strings.CutPrefix(id, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > maxGame {
			maxGame = n
		}
	}
	return fmt.Sprintf("%s%02d", prefix, maxGame+1)
}

// currentSolsticeAndSession finds the highest solstice number and session
// letter among the recorded ids, defaulting to 001-A for an empty sheet.
func currentSolsticeAndSession(ids []string) (int, byte) {
	solstice, letter := 1, byte('A')
	for _, id := range ids {
		s, l, ok := parseGameID(id)
		if !ok {
			continue
		}
		if s > solstice {
			solstice, letter = s, l
		} else if s == solstice && l > letter {
			letter = l
		}
	}
	return solstice, letter
}

func parseGameID(id string) (int, byte, bool) {
	digits, rest, ok := strings.Cut(id, "-")
	if !ok || digits == "" || rest == "" {
		return 0, 0, false
	}
	solstice, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, false
	}
	letter := rest[0]
	if letter < 'A' || letter > 'Z' {
		return 0, 0, false
	}
	return solstice, letter, true
}

func nextSession(solstice int, letter byte) (int, byte) {
	if letter == 'Z' {
		return solstice + 1, 'A'
	}
	return solstice, letter + 1
}

// startsNewSession applies the calendar rules: same day as the most recent
// game continues the session, a non-consecutive day starts a new one, and
// a third consecutive day also starts a new one.
func startsNewSession(existing []time.Time, gameDate time.Time) bool {
	days := uniqueDaysDesc(existing)
	if len(days) == 0 {
		return false
	}
	day := truncateDay(gameDate)
	if day.Equal(days[0]) {
		return false
	}
	if !consecutiveDays(day, days[0]) {
		return true
	}
	if len(days) >= 2 && consecutiveDays(days[0], days[1]) {
		return true
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func consecutiveDays(a, b time.Time) bool {
	return a.AddDate(0, 0, 1).Equal(b) || b.AddDate(0, 0, 1).Equal(a)
}

func uniqueDaysDesc(dates []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(dates))
	var days []time.Time
	for _, d := range dates {
		day := truncateDay(d)
		if seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}
