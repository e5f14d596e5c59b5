package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/caseboard/ufdr/backend/pkg/evidence"
)

// Candidate key lists for the fields a canonical record is assembled
// from. They are deliberately package-level so the resolution contract
// is visible and testable in one place.
var (
	typeKeys            = []string{"type", "recordType", "record_type", "Record_Type", "category", "kind"}
	contactOrNumberKeys = []string{"contact_or_number", "Contact_or_Number", "name_or_number", "Name_or_Number", "contact", "phone", "number", "phonenumber"}
	fromKeys            = []string{"from", "sender", "source", "phone", "number", "phonenumber", "fromnumber"}
	toKeys              = []string{"to", "receiver", "destination", "target", "tonumber", "recipient"}
	timestampKeys       = []string{"timestamp", "time", "date", "datetime", "createdat", "Date"}
	messageKeys         = []string{"message_or_activity", "Message_or_Activity", "message_content", "Message_Content", "content", "message", "text", "note", "body"}
	cryptoAddressKeys   = []string{"crypto_address", "Crypto_Address"}
	urlKeys             = []string{"url", "URL", "url_shared", "URL_Shared"}
	contentFallbackKeys = []string{"content", "message", "text", "note", "body", "messagetext"}
	countryKeys         = []string{"country", "region", "isoCountry"}
	durationKeys        = []string{"durationSeconds", "duration", "callDuration", "durationsec"}
	platformKeys        = []string{"source", "platform", "app", "Platform_or_CallType", "platform_or_calltype"}
)

// contentSeparator joins the message body with crypto-address and URL
// sub-fields into the merged content string.
const contentSeparator = " | "

// DefaultPlatform is the source label applied when the export does not
// identify the originating platform.
const DefaultPlatform = "UFDR"

// Normalize converts one raw parsed object into the canonical evidence
// record. Missing or malformed fields are never errors; they normalize
// to empty strings, zero, or defaults. The raw object is retained
// verbatim as metadata.
func Normalize(raw map[string]any, sourceFile string) evidence.Record {
	r := NewKeyResolver(raw)

	messageText := r.ResolveString(messageKeys...)
	cryptoAddress := r.ResolveString(cryptoAddressKeys...)
	url := r.ResolveString(urlKeys...)

	parts := make([]string, 0, 3)
	for _, part := range []string{messageText, cryptoAddress, url} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	content := strings.Join(parts, contentSeparator)
	if content == "" {
		content = r.ResolveString(contentFallbackKeys...)
	}

	from := r.ResolveString(fromKeys...)
	if from == "" {
		from = r.ResolveString(contactOrNumberKeys...)
	}

	return evidence.Record{
		Type:            classifyType(r.ResolveString(typeKeys...)),
		From:            from,
		To:              r.ResolveString(toKeys...),
		Timestamp:       r.ResolveString(timestampKeys...),
		Content:         content,
		Country:         r.ResolveString(countryKeys...),
		DurationSeconds: resolveDuration(r),
		Source:          resolvePlatform(r),
		SourceFile:      sourceFile,
		Metadata:        raw,
	}
}

// ResolvePlatform exposes the platform resolution used for the source
// field so the graph builder can apply the same rule against metadata.
func ResolvePlatform(raw map[string]any) string {
	return resolvePlatform(NewKeyResolver(raw))
}

func resolvePlatform(r *KeyResolver) string {
	if platform := r.ResolveString(platformKeys...); platform != "" {
		return platform
	}
	return DefaultPlatform
}

func classifyType(value string) evidence.RecordType {
	text := strings.ToLower(value)
	switch {
	case strings.Contains(text, "call"):
		return evidence.TypeCall
	case strings.Contains(text, "contact"):
		return evidence.TypeContact
	case strings.Contains(text, "chat"), strings.Contains(text, "message"):
		return evidence.TypeChat
	default:
		return evidence.TypeChat
	}
}

func resolveDuration(r *KeyResolver) float64 {
	value := r.ResolveString(durationKeys...)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

// coerceString flattens an arbitrary parsed value into a trimmed
// scalar string. Arrays collapse to their first element and objects
// serialize to their JSON text so nested structures never leak into
// scalar record fields.
func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) == 0 {
			return ""
		}
		return coerceString(v[0])
	case map[string]any:
		text, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(text)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
