package interpreter

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var knownTypes = map[string]bool{"chat": true, "call": true, "contact": true}

var knownFlags = map[string]bool{
	"CRYPTO":        true,
	"FOREIGN":       true,
	"LINK":          true,
	"LONG_CALL":     true,
	"PHONE_IN_TEXT": true,
}

// Keyword vocabularies for the rule engine. Matching is substring
// based over the lowercased question.
var typeKeywords = map[string][]string{
	"call":    {"call", "dialed", "rang"},
	"chat":    {"chat", "message", "text", "sms", "conversation"},
	"contact": {"contact", "address book"},
}

var flagKeywords = map[string][]string{
	"CRYPTO":        {"crypto", "bitcoin", "btc", "wallet", "ethereum", "usdt"},
	"FOREIGN":       {"foreign", "international", "overseas", "abroad"},
	"LINK":          {"link", "url", "website"},
	"LONG_CALL":     {"long call", "lengthy call"},
	"PHONE_IN_TEXT": {"phone number in", "number in a message", "number in text"},
}

var suspiciousKeywords = []string{"suspicious", "flagged", "suspect", "unusual"}

// suspiciousFlags is what "suspicious" expands to: any one of these
// marks a record interesting.
var suspiciousFlags = []string{"CRYPTO", "FOREIGN", "LONG_CALL", "LINK"}

const entityExpr = `\+?[0-9Xx][0-9Xx\-]{5,}[0-9Xx]|@[A-Za-z0-9_.]+`

var (
	entityRe   = regexp.MustCompile(entityExpr)
	pairRe     = regexp.MustCompile(`(?i)from\s+(` + entityExpr + `)\s+to\s+(` + entityExpr + `)`)
	lastDaysRe = regexp.MustCompile(`(?i)last\s+(\d+)\s+days?`)
)

// BuildRuleFilter is the deterministic local interpreter: keyword
// vocabularies for types and flags, pattern extraction for entities
// and date ranges. It never fails; an unrecognized question yields an
// unconstrained filter.
func BuildRuleFilter(question string) Filter {
	lower := strings.ToLower(question)
	var filter Filter

	for _, recordType := range []string{"call", "chat", "contact"} {
		if containsAnyKeyword(lower, typeKeywords[recordType]) {
			filter.Types = append(filter.Types, recordType)
		}
	}

	for _, flag := range []string{"CRYPTO", "FOREIGN", "LINK", "LONG_CALL", "PHONE_IN_TEXT"} {
		if containsAnyKeyword(lower, flagKeywords[flag]) {
			filter.Flags = append(filter.Flags, flag)
		}
	}

	if containsAnyKeyword(lower, suspiciousKeywords) {
		filter.AnyFlags = append([]string(nil), suspiciousFlags...)
	}

	if pair := pairRe.FindStringSubmatch(question); pair != nil {
		filter.From = pair[1]
		filter.To = pair[2]
	} else {
		filter.Entities = entityRe.FindAllString(question, -1)
	}

	switch {
	case strings.Contains(lower, "last week"):
		filter.LastDays = 7
	case strings.Contains(lower, "last month"):
		filter.LastDays = 30
	default:
		if m := lastDaysRe.FindStringSubmatch(lower); m != nil {
			if days, err := strconv.Atoi(m[1]); err == nil {
				filter.LastDays = days
			}
		}
	}

	return filter
}

// SuppressUnmentionedFlags drops implicit flag constraints when the
// question pins a strict from/to pair: "calls from A to B" should
// return all of them, not only the flagged ones, unless a flag was
// named outright.
func SuppressUnmentionedFlags(question string, filter *Filter) {
	if !filter.StrictPair() {
		return
	}
	lower := strings.ToLower(question)

	keep := func(flags []string) []string {
		out := make([]string, 0, len(flags))
		for _, flag := range flags {
			if containsAnyKeyword(lower, flagKeywords[flag]) {
				out = append(out, flag)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	filter.Flags = keep(filter.Flags)
	if !containsAnyKeyword(lower, suspiciousKeywords) {
		filter.AnyFlags = keep(filter.AnyFlags)
	}
}

// EvidenceSummary carries the aggregates the local answer path renders
// when no answer model is reachable.
type EvidenceSummary struct {
	Total   int
	ByType  map[string]int
	ByFlag  map[string]int
	Flagged int
}

// LocalAnswer renders a plain aggregate sentence over the matched
// records. Output is deterministic for a given summary.
func LocalAnswer(sum EvidenceSummary) string {
	if sum.Total == 0 {
		return "No records matched the question."
	}

	parts := make([]string, 0, 3)
	for _, recordType := range []string{"call", "chat", "contact"} {
		if count := sum.ByType[recordType]; count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, plural(recordType, count)))
		}
	}

	answer := fmt.Sprintf("Found %d matching records", sum.Total)
	if len(parts) > 0 {
		answer += ": " + strings.Join(parts, ", ")
	}
	answer += "."

	if sum.Flagged > 0 {
		flagNames := make([]string, 0, len(sum.ByFlag))
		for flag := range sum.ByFlag {
			flagNames = append(flagNames, flag)
		}
		sort.Strings(flagNames)

		flagParts := make([]string, 0, len(flagNames))
		for _, flag := range flagNames {
			flagParts = append(flagParts, fmt.Sprintf("%s (%d)", flag, sum.ByFlag[flag]))
		}
		answer += fmt.Sprintf(" %d carry flags: %s.", sum.Flagged, strings.Join(flagParts, ", "))
	}

	return answer
}

func plural(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
