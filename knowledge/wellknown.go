/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package knowledge

import (
	"fmt"
	"regexp"
	"strings"
)

// WellKnownType describes one of Google's well-known or common types with
// guidance on when to use it over a primitive.
type WellKnownType struct {
	FullName        string
	ShortName       string
	Description     string
	WhenToUse       string
	FieldPatterns   []string // anchored regexps matched against lowercased field names
	BadAlternatives []string
	Example         string
}

// wellKnownTypes is ordered: Recommend checks patterns front to back, so
// earlier entries win when a field name matches more than one type.
var wellKnownTypes = []WellKnownType{{
	FullName:    "google.protobuf.Timestamp",
	ShortName:   "Timestamp",
	Description: "Represents a point in time independent of any time zone or calendar",
	WhenToUse:   "Any field representing a specific moment in time",
	FieldPatterns: []string{
		`.*_time$`,
		`.*_at$`,
		`^(created|updated|deleted|expires?|start|end|last|first).*`,
		`.*timestamp.*`,
		`.*date.*time.*`,
		`.*_date$`,
	},
	BadAlternatives: []string{
		"string (ISO 8601 format) - loses type safety",
		"int64 (Unix timestamp) - ambiguous precision (seconds vs millis)",
		"int32 (Unix timestamp) - Y2038 problem",
	},
	Example: `
// Good
google.protobuf.Timestamp create_time = 1;
google.protobuf.Timestamp expire_time = 2;

// Bad
string create_time = 1;  // No type safety
int64 created_at_millis = 1;  // Ambiguous, non-standard
`,
}, {
	FullName:    "google.protobuf.Duration",
	ShortName:   "Duration",
	Description: "Represents a signed, fixed-length span of time",
	WhenToUse:   "Any field representing a length of time or time interval",
	FieldPatterns: []string{
		`.*duration.*`, `.*timeout.*`, `.*ttl.*`,
		`.*_seconds$`, `.*_minutes$`, `.*_hours$`, `.*_days$`,
		`.*interval.*`, `.*delay.*`, `.*period.*`, `.*wait.*`, `.*retention.*`,
	},
	BadAlternatives: []string{
		"int32/int64 with _seconds suffix - loses precision, requires unit convention",
		"float/double - precision issues",
		"string - parsing overhead, no validation",
	},
	Example: `
// Good
google.protobuf.Duration timeout = 1;
google.protobuf.Duration retention_period = 2;

// Bad
int32 timeout_seconds = 1;  // Loses nanosecond precision
int64 ttl_ms = 2;  // Unit ambiguity
`,
}, {
	FullName:      "google.protobuf.FieldMask",
	ShortName:     "FieldMask",
	Description:   "Represents a set of field paths for partial operations",
	WhenToUse:     "Update operations to specify which fields to modify, or read operations to specify which fields to return",
	FieldPatterns: []string{`.*update_mask.*`, `.*field_mask.*`, `.*read_mask.*`},
	BadAlternatives: []string{
		"repeated string fields - loses validation of field paths",
		"Custom mask message - non-standard, reinventing the wheel",
	},
	Example: `
// Good
message UpdateBookRequest {
  Book book = 1;
  google.protobuf.FieldMask update_mask = 2;
}

// Bad
message UpdateBookRequest {
  Book book = 1;
  repeated string fields_to_update = 2;  // No path validation
}
`,
}, {
	FullName:    "google.protobuf.Empty",
	ShortName:   "Empty",
	Description: "A message with no fields, used when there's nothing to return",
	WhenToUse:   "Delete operations that don't use soft delete, or any operation with no meaningful response",
	BadAlternatives: []string{
		"Custom empty message - non-standard, unnecessary duplication",
		"Returning the deleted resource when hard deleting",
	},
	Example: `
// Good
rpc DeleteBook(DeleteBookRequest) returns (google.protobuf.Empty);

// Bad - for hard delete
rpc DeleteBook(DeleteBookRequest) returns (DeleteBookResponse);
message DeleteBookResponse {}  // Just use Empty
`,
}, {
	FullName:      "google.protobuf.Any",
	ShortName:     "Any",
	Description:   "Contains an arbitrary serialized protocol buffer message along with a type URL",
	WhenToUse:     "When you need to store/transmit arbitrary protobuf messages and the type isn't known at compile time",
	FieldPatterns: []string{`.*payload.*`, `.*data.*`, `.*extension.*`, `.*details.*`},
	BadAlternatives: []string{
		"bytes - loses type information",
		"string (JSON) - loses type safety and efficiency",
	},
	Example: `
// Good - error details pattern
message Status {
  int32 code = 1;
  string message = 2;
  repeated google.protobuf.Any details = 3;
}
`,
}, {
	FullName:    "google.protobuf.Struct",
	ShortName:   "Struct",
	Description: "Represents a JSON object with dynamic structure",
	WhenToUse:   "When you need to store arbitrary JSON-like data that doesn't have a fixed schema",
	FieldPatterns: []string{
		`.*metadata.*`, `.*properties.*`, `.*attributes.*`, `.*labels.*`,
		`.*config.*`, `.*settings.*`, `.*extra.*`, `.*custom.*`,
	},
	BadAlternatives: []string{
		"string (JSON) - requires parsing, no partial access",
		"bytes (JSON) - same issues plus encoding ambiguity",
		"map<string, string> - only supports string values",
	},
	Example: `
// Good
message Resource {
  string name = 1;
  google.protobuf.Struct metadata = 2;  // Arbitrary key-value data
}

// Acceptable alternative for simple cases
message Resource {
  string name = 1;
  map<string, string> labels = 2;  // When values are always strings
}
`,
}, {
	FullName:    "google.protobuf.StringValue",
	ShortName:   "StringValue",
	Description: "Wrapper for string to distinguish null from empty string",
	WhenToUse:   "When you need to distinguish between 'not set' and 'set to empty string'",
	BadAlternatives: []string{
		"string with sentinel value like 'NULL' - magic values are error-prone",
		"separate boolean has_field - clutters the message",
	},
	Example: `
// Good - when null vs empty matters
google.protobuf.StringValue middle_name = 1;  // null = unknown, "" = no middle name

// In proto3, often unnecessary - just use string if empty and unset are equivalent
string description = 1;  // Empty and unset both mean "no description"
`,
}, {
	FullName:    "google.protobuf.Int32Value",
	ShortName:   "Int32Value",
	Description: "Wrapper for int32 to distinguish null from zero",
	WhenToUse:   "When you need to distinguish between 'not set' and 'set to zero'",
	BadAlternatives: []string{
		"int32 with sentinel value like -1 - magic values are error-prone",
	},
	Example: `
// Good - when null vs zero matters
google.protobuf.Int32Value page_size = 1;  // null = use default, 0 = invalid
`,
}, {
	FullName:    "google.protobuf.BoolValue",
	ShortName:   "BoolValue",
	Description: "Wrapper for bool to distinguish null from false",
	WhenToUse:   "When you need three states: true, false, and unset/unknown",
	BadAlternatives: []string{
		"bool - can't distinguish unset from false",
		"enum with UNKNOWN, TRUE, FALSE - non-standard",
	},
	Example: `
// Good - when null vs false matters
google.protobuf.BoolValue is_active = 1;  // null = inherit from parent
`,
}, {
	FullName:    "google.type.Money",
	ShortName:   "Money",
	Description: "Represents an amount of money with currency",
	WhenToUse:   "Any field representing monetary amounts",
	FieldPatterns: []string{
		`.*price.*`, `.*cost.*`, `.*amount.*`, `.*fee.*`, `.*balance.*`,
		`.*payment.*`, `.*total.*`, `.*rate.*`, `.*salary.*`, `.*budget.*`,
	},
	BadAlternatives: []string{
		"double/float - precision loss, floating point issues with money",
		"int64 (cents) - loses currency information, error-prone",
		"string - parsing overhead, no validation",
		"Decimal string - non-standard, requires parsing",
	},
	Example: `
// Good
google.type.Money price = 1;
google.type.Money monthly_budget = 2;

// Bad
double price = 1;  // Floating point errors
int64 price_cents = 1;  // Loses currency, easy to forget to divide
string price = 1;  // Requires parsing, no validation
`,
}, {
	FullName:    "google.type.Date",
	ShortName:   "Date",
	Description: "Represents a calendar date (year, month, day) without time",
	WhenToUse:   "When you need a date without time component (birthdays, due dates, etc.)",
	FieldPatterns: []string{
		`.*birth.*date.*`, `.*due.*date.*`, `.*start.*date.*`,
		`.*end.*date.*`, `.*effective.*date.*`, `.*expir.*date.*`,
	},
	BadAlternatives: []string{
		"string (YYYY-MM-DD) - no validation",
		"Timestamp - includes unnecessary time component",
		"int32 (YYYYMMDD) - error-prone parsing",
	},
	Example: `
// Good
google.type.Date birth_date = 1;
google.type.Date due_date = 2;

// Bad
string birth_date = 1;  // No validation, format ambiguity
`,
}, {
	FullName:    "google.type.TimeOfDay",
	ShortName:   "TimeOfDay",
	Description: "Represents a time of day without date or time zone",
	WhenToUse:   "Recurring times like business hours, alarm times",
	FieldPatterns: []string{
		`.*open.*time.*`, `.*close.*time.*`, `.*start.*time.*`,
		`.*alarm.*time.*`, `.*schedule.*time.*`,
	},
	BadAlternatives: []string{
		"string (HH:MM) - no validation",
		"int32 (seconds since midnight) - non-intuitive",
	},
	Example: `
// Good
google.type.TimeOfDay opening_time = 1;
google.type.TimeOfDay closing_time = 2;

// Bad
string opening_time = 1;  // Format ambiguity (12h vs 24h)
`,
}, {
	FullName:    "google.type.LatLng",
	ShortName:   "LatLng",
	Description: "Represents a geographic coordinate (latitude and longitude)",
	WhenToUse:   "Any field representing a geographic location",
	FieldPatterns: []string{
		`.*location.*`, `.*coordinates?.*`, `.*position.*`, `.*geo.*`,
		`.*lat.*lng.*`, `.*latitude.*`, `.*longitude.*`,
	},
	BadAlternatives: []string{
		"Two separate double fields - loses semantic grouping",
		"string (lat,lng) - requires parsing",
		"Custom message - non-standard",
	},
	Example: `
// Good
google.type.LatLng location = 1;

// Bad
double latitude = 1;
double longitude = 2;  // Loses grouping, could be assigned independently
`,
}, {
	FullName:      "google.type.Color",
	ShortName:     "Color",
	Description:   "Represents a color in RGBA color space",
	WhenToUse:     "Any field representing a color",
	FieldPatterns: []string{`.*color.*`, `.*background.*`, `.*foreground.*`, `.*tint.*`},
	BadAlternatives: []string{
		"string (hex) - no validation, multiple formats (#RGB, #RRGGBB, etc.)",
		"int32 (packed RGBA) - non-intuitive, endianness issues",
	},
	Example: `
// Good
google.type.Color background_color = 1;

// Acceptable for simple cases
string color_hex = 1;  // When interop with CSS/web is primary concern
`,
}}

// fieldPatternRes holds the compiled, start-anchored form of every
// FieldPatterns entry, keyed by short name and indexed in declaration order.
var fieldPatternRes = func() map[string][]*regexp.Regexp {
	m := make(map[string][]*regexp.Regexp, len(wellKnownTypes))
	for _, wkt := range wellKnownTypes {
		res := make([]*regexp.Regexp, len(wkt.FieldPatterns))
		for i, p := range wkt.FieldPatterns {
			res[i] = regexp.MustCompile("^" + p)
		}
		m[wkt.ShortName] = res
	}
	return m
}()

// recommendableFrom limits which primitive types each well-known type is
// suggested to replace; a pattern hit on an already-structured type is noise.
var recommendableFrom = map[string][]string{
	"Timestamp": {"string", "int32", "int64"},
	"Duration":  {"string", "int32", "int64", "float", "double"},
	"Money":     {"float", "double", "int32", "int64", "string"},
	"Date":      {"string", "int32"},
	"LatLng":    {"string"},
}

// TypeInfo looks up a well-known type by short name, full name, or
// case-insensitive match.
func TypeInfo(name string) (WellKnownType, bool) {
	for _, wkt := range wellKnownTypes {
		if strings.EqualFold(wkt.ShortName, name) || strings.EqualFold(wkt.FullName, name) {
			return wkt, true
		}
	}
	return WellKnownType{}, false
}

// Recommend inspects a field's name and current type and suggests a
// well-known type when the name implies richer semantics than the type
// carries. The bool reports whether a recommendation was made.
func Recommend(fieldName, currentType string) (WellKnownType, string, bool) {
	nameLower := strings.ToLower(fieldName)
	typeLower := strings.ToLower(currentType)

	for _, wkt := range wellKnownTypes {
		for _, re := range fieldPatternRes[wkt.ShortName] {
			if !re.MatchString(nameLower) {
				continue
			}
			// Already using the suggested type.
			if strings.Contains(typeLower, strings.ToLower(wkt.ShortName)) ||
				strings.Contains(typeLower, strings.ToLower(wkt.FullName)) {
				return WellKnownType{}, "", false
			}
			from, ok := recommendableFrom[wkt.ShortName]
			if !ok {
				continue
			}
			for _, t := range from {
				if typeLower == t {
					reason := fmt.Sprintf("Field %q appears to represent %s", fieldName, recommendationNoun(wkt.ShortName))
					return wkt, reason, true
				}
			}
		}
	}
	return WellKnownType{}, "", false
}

func recommendationNoun(shortName string) string {
	switch shortName {
	case "Timestamp":
		return "a point in time"
	case "Duration":
		return "a time duration"
	case "Money":
		return "a monetary amount"
	case "Date":
		return "a calendar date"
	case "LatLng":
		return "a geographic location"
	default:
		return "a structured value"
	}
}

// TypeReference renders the full well-known type table as markdown.
func TypeReference() string {
	var sb strings.Builder
	sb.WriteString("# Well-Known Types Reference\n\n")
	for _, wkt := range wellKnownTypes {
		fmt.Fprintf(&sb, "## %s\n", wkt.FullName)
		fmt.Fprintf(&sb, "**When to use:** %s\n", wkt.WhenToUse)
		if len(wkt.FieldPatterns) > 0 {
			patterns := wkt.FieldPatterns
			if len(patterns) > 5 {
				patterns = patterns[:5]
			}
			readable := make([]string, len(patterns))
			for i, p := range patterns {
				readable[i] = readablePattern(p)
			}
			fmt.Fprintf(&sb, "**Common field patterns:** %s\n", strings.Join(readable, ", "))
		}
		if len(wkt.BadAlternatives) > 0 {
			sb.WriteString("**Avoid:**\n")
			alts := wkt.BadAlternatives
			if len(alts) > 3 {
				alts = alts[:3]
			}
			for _, alt := range alts {
				fmt.Fprintf(&sb, "  - %s\n", alt)
			}
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func readablePattern(p string) string {
	r := strings.NewReplacer(".*", "*", "$", "", "^", "")
	return r.Replace(p)
}
