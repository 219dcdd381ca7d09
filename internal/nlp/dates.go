package nlp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	explicitDateRe = regexp.MustCompile(`(\d{1,2})[/.](\d{1,2})`)
	explicitTimeRe = regexp.MustCompile(`בשעה (\d{1,2}):(\d{2})`)
)

// resolveDate maps a Hebrew date expression in text to a YYYY-MM-DD string,
// anchored to ref (already converted to the target timezone). Rules are
// tried in a fixed order and only the first match applies; no match returns
// nil. Matching is substring containment, consistent with the rest of the
// engine.
func resolveDate(text string, ref time.Time) *string {
	// Relative dates. "מחרתיים" is checked before "מחר" because the former
	// contains the latter.
	if strings.Contains(text, "היום") {
		return datePtr(ref)
	}
	if strings.Contains(text, "מחרתיים") {
		return datePtr(ref.AddDate(0, 0, 2))
	}
	if strings.Contains(text, "מחר") {
		return datePtr(ref.AddDate(0, 0, 1))
	}

	// Next week resolves to the next Monday strictly after ref
	if strings.Contains(text, "בשבוע הבא") {
		return datePtr(nextWeekday(ref, time.Monday))
	}

	// Specific weekdays: "ביום <name>", optionally qualified with "הבא"
	for _, wd := range weekdays {
		if strings.Contains(text, "ביום "+wd.Name) {
			next := nextWeekday(ref, wd.Day)
			if strings.Contains(text, "הבא") {
				next = next.AddDate(0, 0, 7)
			}
			return datePtr(next)
		}
	}

	// Explicit dates (dd/mm or dd.mm)
	if m := explicitDateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		parsed := time.Date(ref.Year(), time.Month(month), day, 0, 0, 0, 0, ref.Location())

		// A date that already passed this year means next year
		refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
		if parsed.Before(refDay) {
			parsed = parsed.AddDate(1, 0, 0)
		}
		return datePtr(parsed)
	}

	return nil
}

// resolveTime maps an explicit "בשעה HH:MM" pattern or a day-part keyword to
// an HH:MM clock time. Returns nil when neither is present.
func resolveTime(text string) *string {
	if m := explicitTimeRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		t := fmt.Sprintf("%02d:%s", hour, m[2])
		return &t
	}

	for _, dp := range dayParts {
		if strings.Contains(text, dp.Expr) {
			t := fmt.Sprintf("%02d:00", dp.Hour)
			return &t
		}
	}

	return nil
}

// nextWeekday returns the next occurrence of target strictly after ref: a
// ref that already falls on target resolves a full week ahead.
func nextWeekday(ref time.Time, target time.Weekday) time.Time {
	days := (int(target) - int(ref.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return ref.AddDate(0, 0, days)
}

func datePtr(t time.Time) *string {
	s := t.Format(dateLayout)
	return &s
}
