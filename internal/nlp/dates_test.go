package nlp

import (
	"testing"
	"time"
)

// jerusalem returns a tz-local reference instant. 2024-01-10 is a Wednesday.
func jerusalem(t *testing.T, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	ref, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		t.Fatalf("parse reference %q: %v", value, err)
	}
	return ref
}

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		ref  string
		want string // empty means no date expected
	}{
		{"today", "נא להביא היום חולצה", "2024-01-10 09:00", "2024-01-10"},
		{"tomorrow", "מחר יש טיול", "2024-01-10 09:00", "2024-01-11"},
		{"day after tomorrow", "מחרתיים יש מבחן", "2024-01-10 09:00", "2024-01-12"},
		{"next week is next monday", "בשבוע הבא יש הצגה", "2024-01-10 09:00", "2024-01-15"},
		{"next week from monday skips a week", "בשבוע הבא יש הצגה", "2024-01-08 09:00", "2024-01-15"},
		{"weekday ahead in week", "ביום חמישי יש שיעור", "2024-01-10 09:00", "2024-01-11"},
		{"same weekday rolls a week", "ביום רביעי יש שיעור", "2024-01-10 09:00", "2024-01-17"},
		{"weekday with next qualifier", "ביום שני הבא יש מסיבה", "2024-01-10 09:00", "2024-01-22"},
		{"single letter abbreviation", "ביום ה יש חוג", "2024-01-10 09:00", "2024-01-11"},
		{"explicit date later this year", "המסיבה ב-15/12 בבוקר", "2024-01-10 09:00", "2024-12-15"},
		{"explicit date already passed rolls a year", "המסיבה ב-15/12 בבוקר", "2024-12-20 09:00", "2025-12-15"},
		{"explicit date with dot separator", "מבחן ב-3.6", "2024-01-10 09:00", "2024-06-03"},
		{"explicit date equal to reference stays", "תשלום עד 10/1", "2024-01-10 09:00", "2024-01-10"},
		{"no date expression", "שלום רב", "2024-01-10 09:00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveDate(tt.text, jerusalem(t, tt.ref))
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected no date, got %q", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %q, got nil", tt.want)
			}
			if *got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, *got)
			}
		})
	}
}

func TestResolveTime(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"explicit time", "ישיבת הורים בשעה 16:00", "16:00"},
		{"explicit time pads hour", "שיעור בשעה 9:30", "09:30"},
		{"morning", "להביא בקבוק בבוקר", "08:00"},
		{"noon", "איסוף בצהריים", "12:00"},
		{"afternoon", "חוג אחה״צ", "16:00"},
		{"evening", "מסיבה בערב", "19:00"},
		{"night", "טיסה בלילה", "22:00"},
		{"explicit beats day part", "מסיבה בערב בשעה 20:30", "20:30"},
		{"no time", "נא להביא חולצה", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveTime(tt.text)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected no time, got %q", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %q, got nil", tt.want)
			}
			if *got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, *got)
			}
		})
	}
}

func TestNextWeekdayIsStrictlyAfter(t *testing.T) {
	ref := jerusalem(t, "2024-01-10 09:00") // Wednesday
	got := nextWeekday(ref, time.Wednesday)
	if got.Format(dateLayout) != "2024-01-17" {
		t.Errorf("expected 2024-01-17, got %s", got.Format(dateLayout))
	}
}
