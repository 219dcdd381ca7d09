// Package nlp implements the rule-based Hebrew message-understanding
// pipeline: it converts one free-form parent message into zero or more typed
// intents (tasks and calendar events) with date, time, item, category,
// priority and location fields.
//
// The pipeline is deterministic and pure: it only reads its call-scoped
// inputs and the immutable keyword tables, performs no I/O, and may be
// invoked concurrently without coordination.
package nlp

import (
	"regexp"
	"strings"
	"time"

	"github.com/ronsway/MakeMyDay/internal/model"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	locationRe   = regexp.MustCompile(`ב([א-ת\s]{2,20}(?:בית ספר|גן|כיתה|אולם))`)
)

// Parse extracts structured tasks and events from a Hebrew message. ref is
// the absolute instant relative date expressions are resolved against; it is
// converted into tz-local calendar terms before any weekday or "tomorrow"
// math. Parse never fails: text with no recognizable structure yields an
// empty result.
func Parse(text string, ref time.Time, tz string) []model.ParsedEntity {
	normalized := normalize(text)

	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	zonedRef := ref.In(loc)

	date := resolveDate(normalized, zonedRef)
	clock := resolveTime(normalized)

	hasActionVerb := containsAny(normalized, actionVerbs)
	hasEventContext := containsAny(normalized, eventContexts)

	var results []model.ParsedEntity

	if hasActionVerb || (!hasEventContext && date != nil) {
		results = append(results, extractTasks(normalized, date, clock)...)
	}

	if hasEventContext || (!hasActionVerb && date != nil && clock != nil) {
		if event := extractEvent(normalized, date, clock); event != nil {
			results = append(results, *event)
		}
	}

	// Never silently drop a message carrying a recognizable date
	if len(results) == 0 && date != nil {
		results = append(results, fallbackReminder(normalized, date, clock))
	}

	return results
}

// normalize trims the text and collapses internal whitespace runs to a
// single space. Hebrew has no case, so no further folding is applied.
func normalize(text string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
}

// extractTasks produces one task entity per detected item, or a single
// generic task built around the first action verb when no item is found.
func extractTasks(text string, date, clock *string) []model.ParsedEntity {
	items := extractItems(text)
	category := categorizeItems(items)
	priority := detectPriority(text)

	if len(items) > 0 {
		tasks := make([]model.ParsedEntity, 0, len(items))
		for _, item := range items {
			tasks = append(tasks, model.ParsedEntity{
				Intents: []string{"bring"},
				Entities: model.Entities{
					Date:     date,
					Time:     clock,
					Item:     strPtr(item),
					Category: strPtr(category),
					Priority: priority,
				},
				Confidence: 0.85,
				Type:       model.EntityTask,
			})
		}
		return tasks
	}

	// Generic task: the first action verb plus a crude five-token window
	title := extractMainAction(text)
	if title == "" {
		return nil
	}
	return []model.ParsedEntity{{
		Intents: []string{"do"},
		Entities: model.Entities{
			Date:     date,
			Time:     clock,
			Item:     strPtr(title),
			Category: strPtr(model.CategoryOther),
			Priority: priority,
		},
		Confidence: 0.7,
		Type:       model.EntityTask,
	}}
}

// extractEvent produces an event entity when an event-context keyword or a
// date is present.
func extractEvent(text string, date, clock *string) *model.ParsedEntity {
	context := extractEventContext(text)
	location := extractLocation(text)

	if context == nil && date == nil {
		return nil
	}
	if context == nil {
		context = strPtr("אירוע")
	}
	return &model.ParsedEntity{
		Intents: []string{"attend"},
		Entities: model.Entities{
			Date:     date,
			Time:     clock,
			Context:  context,
			Location: location,
		},
		Confidence: 0.8,
		Type:       model.EntityEvent,
	}
}

// fallbackReminder emits a generic reminder task so an actionable date never
// vanishes. Only called when a date was resolved.
func fallbackReminder(text string, date, clock *string) model.ParsedEntity {
	item := text
	if runes := []rune(text); len(runes) > 50 {
		item = string(runes[:50]) + "..."
	}
	return model.ParsedEntity{
		Intents: []string{"reminder"},
		Entities: model.Entities{
			Date:     date,
			Time:     clock,
			Item:     strPtr(item),
			Category: strPtr(model.CategoryOther),
		},
		Confidence: 0.6,
		Type:       model.EntityTask,
	}
}

// extractItems collects every category keyword present in the text, across
// all categories, de-duplicated in table order.
func extractItems(text string) []string {
	var items []string
	seen := make(map[string]bool)
	for _, cat := range itemCategories {
		for _, item := range cat.Items {
			if strings.Contains(text, item) && !seen[item] {
				seen[item] = true
				items = append(items, item)
			}
		}
	}
	return items
}

// categorizeItems returns the first category (in table order) whose keyword
// list contains any of the collected items. One category is assigned to all
// items of a message.
func categorizeItems(items []string) string {
	for _, cat := range itemCategories {
		for _, candidate := range cat.Items {
			for _, item := range items {
				if item == candidate {
					return cat.Name
				}
			}
		}
	}
	return model.CategoryOther
}

// detectPriority is computed once from the whole message and applied to
// every task extracted from it.
func detectPriority(text string) model.Priority {
	if containsAny(text, necessityKeywords) {
		return model.PriorityHigh
	}
	return model.PriorityNormal
}

// extractMainAction takes the first action verb found in the text plus the
// following four whitespace-delimited tokens. Not sentence-boundary aware.
func extractMainAction(text string) string {
	for _, verb := range actionVerbs {
		idx := strings.Index(text, verb)
		if idx < 0 {
			continue
		}
		tokens := strings.Split(text[idx:], " ")
		if len(tokens) > 5 {
			tokens = tokens[:5]
		}
		return strings.Join(tokens, " ")
	}
	return ""
}

func extractEventContext(text string) *string {
	for _, context := range eventContexts {
		if strings.Contains(text, context) {
			return strPtr(context)
		}
	}
	return nil
}

// extractLocation matches a short Hebrew phrase ending in a known venue
// noun, prefixed by the preposition "ב".
func extractLocation(text string) *string {
	if m := locationRe.FindStringSubmatch(text); m != nil {
		return strPtr(m[1])
	}
	return nil
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func strPtr(s string) *string {
	return &s
}
