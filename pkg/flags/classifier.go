// Package flags tags evidence records with heuristic indicators.
// Each rule is an explicit, named pattern contract so it stays
// independently testable and replaceable.
package flags

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/caseboard/ufdr/backend/pkg/evidence"
)

var (
	btcPattern   = regexp.MustCompile(`(bc1|[13])[a-zA-HJ-NP-Z0-9]{25,39}`)
	ethPattern   = regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`)
	urlPattern   = regexp.MustCompile(`(?i)https?://[^\s]+`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\-\s]{7,}`)
)

// cryptoKeywords trigger CRYPTO when they appear anywhere in the
// merged record text, including metadata values.
var cryptoKeywords = []string{"crypto", "bitcoin", "wallet", "transfer", "usdt", "ethereum"}

// longCallSeconds is the duration threshold for LONG_CALL.
const longCallSeconds = 600

// homeCountryPrefix is the dialing prefix that does not count as
// foreign. Baked in from the original heuristic; classifiers for other
// home jurisdictions go through ClassifierFor.
const homeCountryPrefix = "+91"

// Classify derives the flag set for one record using the default home
// country prefix. It is pure and idempotent: the same record always
// yields the same flags, independent of surrounding records.
func Classify(record evidence.Record) []evidence.FlagKind {
	return ClassifierFor(homeCountryPrefix)(record)
}

// ClassifierFor returns a classify function with a configurable home
// country prefix for FOREIGN detection.
func ClassifierFor(homePrefix string) func(evidence.Record) []evidence.FlagKind {
	return func(record evidence.Record) []evidence.FlagKind {
		flags := make([]evidence.FlagKind, 0, 5)

		metadataText := strings.ToLower(joinMetadataValues(record.Metadata))
		mergedText := strings.ToLower(record.Content+" "+record.From+" "+record.To) + " " + metadataText

		if btcPattern.MatchString(record.Content) ||
			ethPattern.MatchString(record.Content) ||
			ethPattern.MatchString(metadataText) ||
			containsAny(mergedText, cryptoKeywords) {
			flags = append(flags, evidence.FlagCrypto)
		}

		if isForeign(record.From, homePrefix) || isForeign(record.To, homePrefix) {
			flags = append(flags, evidence.FlagForeign)
		}

		if urlPattern.MatchString(record.Content) || urlPattern.MatchString(metadataText) {
			flags = append(flags, evidence.FlagLink)
		}

		if record.Type == evidence.TypeCall && record.DurationSeconds >= longCallSeconds {
			flags = append(flags, evidence.FlagLongCall)
		}

		if phonePattern.MatchString(record.Content) {
			flags = append(flags, evidence.FlagPhoneInText)
		}

		return flags
	}
}

func isForeign(participant, homePrefix string) bool {
	return strings.HasPrefix(participant, "+") && !strings.HasPrefix(participant, homePrefix)
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// joinMetadataValues concatenates every non-null metadata value as
// text, in sorted key order for determinism. Nested values serialize
// the same way scalar coercion does in the normalizer.
func joinMetadataValues(metadata map[string]any) string {
	if len(metadata) == 0 {
		return ""
	}
	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if metadata[key] == nil {
			continue
		}
		if text := stringifyValue(metadata[key]); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func stringifyValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			parts = append(parts, stringifyValue(item))
		}
		return strings.Join(parts, " ")
	case map[string]any:
		text, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(text)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
