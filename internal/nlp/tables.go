package nlp

import "time"

// Static keyword tables for the Hebrew extraction engine. All tables are
// ordered slices, not maps: matching is first-hit and must be deterministic
// across calls, so iteration order is part of the contract.

// Hebrew action verbs for task detection
var actionVerbs = []string{
	"להביא", "להכין", "לשלוח", "ללבוש", "לשלם", "לקנות", "לעשות",
	"להגיש", "להחזיר", "לכתוב", "לקרוא", "להשלים", "לסיים",
}

// Keywords indicating necessity/urgency
var necessityKeywords = []string{
	"חובה", "נא", "צריך", "יש להביא", "נדרש", "חשוב", "עד", "לא לשכוח",
}

type weekdayEntry struct {
	Name string
	Day  time.Weekday
}

// Hebrew weekday names and single-letter abbreviations. Full names come
// first so "ביום שני" never hits the "ש" abbreviation.
var weekdays = []weekdayEntry{
	{"ראשון", time.Sunday},
	{"שני", time.Monday},
	{"שלישי", time.Tuesday},
	{"רביעי", time.Wednesday},
	{"חמישי", time.Thursday},
	{"שישי", time.Friday},
	{"שבת", time.Saturday},
	{"א", time.Sunday},
	{"ב", time.Monday},
	{"ג", time.Tuesday},
	{"ד", time.Wednesday},
	{"ה", time.Thursday},
	{"ו", time.Friday},
	{"ש", time.Saturday},
}

type categoryEntry struct {
	Name  string
	Items []string
}

// Item keyword tables. Declaration order doubles as category resolution
// order: the first category containing any matched item wins for the whole
// message.
var itemCategories = []categoryEntry{
	{"equipment", []string{"חולצה", "כובע", "נעליים", "בגדים", "תיק", "בקבוק", "מים"}},
	{"homework", []string{"שיעורי בית", "מטלה", "פרויקט", "עבודה", "חשבון", "קריאה"}},
	{"payment", []string{"תשלום", "כסף", "שקל", "שקלים", "ש״ח"}},
	{"gift", []string{"מתנה", "עוגה", "פרחים", "כרטיס ברכה"}},
	{"other", []string{"תמונות", "מסמכים", "טופס", "אישור"}},
}

// Context keywords for events
var eventContexts = []string{
	"טקס", "חגיגה", "מסיבה", "טיול", "ישיבת הורים", "הצגה", "פעילות",
	"שיעור", "אירוע", "פגישה", "בדיקה", "מבחן",
}

type dayPartEntry struct {
	Expr string
	Hour int
}

// Coarse day-part expressions mapped to fixed clock hours
var dayParts = []dayPartEntry{
	{"בבוקר", 8},
	{"בצהריים", 12},
	{"אחה״צ", 16},
	{"בערב", 19},
	{"בלילה", 22},
}
