package evidence

// Record is the canonical evidence record produced by the normalizer,
// regardless of the export format it was extracted from. Every field
// except DurationSeconds is a plain string (possibly empty) so that
// downstream consumers never see a null or a nested value in a scalar
// position.
//
// Metadata retains the original raw object verbatim for traceability.
// The flag classifier reads it only through generic key resolution and
// text concatenation, never through format-specific field access.
type Record struct {
	Type            RecordType     `json:"type"`
	From            string         `json:"from"`
	To              string         `json:"to"`
	Timestamp       string         `json:"timestamp"`
	Content         string         `json:"content"`
	Country         string         `json:"country"`
	DurationSeconds float64        `json:"durationSeconds"`
	Source          string         `json:"source"`
	SourceFile      string         `json:"sourceFile"`
	Flags           []FlagKind     `json:"flags"`
	Metadata        map[string]any `json:"metadata"`
}

// RecordType classifies a record as one of the three supported
// communication kinds. Unrecognized inputs default to TypeChat.
type RecordType string

const (
	TypeChat    RecordType = "chat"
	TypeCall    RecordType = "call"
	TypeContact RecordType = "contact"
)

// SupportedTypes lists every record type the pipeline ingests.
var SupportedTypes = []RecordType{TypeChat, TypeCall, TypeContact}

// FlagKind is one heuristic evidence tag from the fixed vocabulary.
type FlagKind string

const (
	FlagCrypto      FlagKind = "CRYPTO"
	FlagForeign     FlagKind = "FOREIGN"
	FlagLink        FlagKind = "LINK"
	FlagLongCall    FlagKind = "LONG_CALL"
	FlagPhoneInText FlagKind = "PHONE_IN_TEXT"
)

// HasFlag reports whether the record carries the given flag.
func (r Record) HasFlag(flag FlagKind) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// HasAnchor reports whether the record carries at least one of the
// fields that make it worth keeping: a participant, content, or a
// timestamp. Records without any anchor are discarded at ingestion
// and by the recursive XML fallback.
func (r Record) HasAnchor() bool {
	return r.From != "" || r.To != "" || r.Content != "" || r.Timestamp != ""
}
