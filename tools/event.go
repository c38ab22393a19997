/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package tools

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"protoreview.dev/reviewer/schema"
	"protoreview.dev/reviewer/tools/params"
)

type analyzeEventArgs struct {
	MessageName string `json:"message_name" jsonschema:"description=The name of the event message,required"`
	FieldList   string `json:"field_list" jsonschema:"description=Comma-separated list of field names in the message,required"`
}

var (
	eventFieldsDecl = Declaration{
		Name:        "get_event_field_guidance",
		Description: "Get guidance on standard event message fields (event_id, event_time, correlation_id, etc.)",
		Parameters:  schema.MustFor[noArgs](),
	}
	analyzeEventDecl = Declaration{
		Name:        "analyze_event_semantics",
		Description: "Analyze an event message for semantic correctness",
		Parameters:  schema.MustFor[analyzeEventArgs](),
	}
)

func (r *Registry) eventFieldGuidance(_ context.Context, _ map[string]any) (string, error) {
	return eventFieldsDoc, nil
}

func (r *Registry) analyzeEventSemantics(_ context.Context, args map[string]any) (string, error) {
	messageName, err := params.Extract[string](args, "message_name")
	if err != nil {
		return "", err
	}
	list, err := params.ExtractList(args, "field_list")
	if err != nil {
		return "", err
	}

	fields := make([]string, len(list))
	for i, f := range list {
		fields[i] = strings.ToLower(f)
	}

	var good, issues, suggestions []string

	if containsAny(fields, "event_id", "eventid", "id", "message_id") {
		good = append(good, "Has event identifier field")
	} else {
		issues = append(issues, "Missing event_id - events need unique identifiers for idempotency")
	}

	hasTime := slices.ContainsFunc(fields, func(f string) bool {
		return strings.Contains(f, "time") || strings.Contains(f, "timestamp") || strings.Contains(f, "_at")
	})
	if hasTime {
		good = append(good, "Has timestamp field")
	} else {
		issues = append(issues, "Missing event timestamp (event_time, occurred_at, etc.)")
	}

	if !containsAny(fields, "correlation_id", "correlationid", "trace_id", "request_id") {
		suggestions = append(suggestions, "Consider adding correlation_id for distributed tracing")
	}

	if !containsAny(fields, "source", "origin", "producer", "service") {
		suggestions = append(suggestions, "Consider adding source field to identify event origin")
	}

	if !hasEventSuffix(messageName) {
		suggestions = append(suggestions, fmt.Sprintf("Consider naming convention: %sEvent or similar", messageName))
	}

	hasVersion := slices.ContainsFunc(fields, func(f string) bool {
		return strings.Contains(f, "version")
	})
	if !hasVersion {
		suggestions = append(suggestions, "Consider schema_version for future evolution")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Analysis of %s\n\n", messageName)
	fmt.Fprintf(&sb, "Fields analyzed: %s\n\n", strings.Join(fields, ", "))

	writeSection := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&sb, "## %s\n", title)
		for _, item := range items {
			fmt.Fprintf(&sb, "- %s\n", item)
		}
		sb.WriteString("\n")
	}
	writeSection("Good Patterns", good)
	writeSection("Issues", issues)
	writeSection("Suggestions", suggestions)

	if len(issues) == 0 && len(suggestions) == 0 {
		sb.WriteString("No significant issues detected. Event structure looks good.\n")
	}
	return sb.String(), nil
}

func containsAny(fields []string, names ...string) bool {
	return slices.ContainsFunc(fields, func(f string) bool {
		return slices.Contains(names, f)
	})
}

func hasEventSuffix(messageName string) bool {
	for _, suffix := range []string{"Event", "Notification", "Message", "Command"} {
		if strings.HasSuffix(messageName, suffix) {
			return true
		}
	}
	return false
}

const eventFieldsDoc = `# Standard Event Message Fields

## Required Fields

### event_id (string)
- Unique identifier for this event instance
- Should be UUID or similar globally unique ID
- Immutable - assigned at creation time
- Used for idempotency and deduplication
- Different from entity IDs (e.g., order_id)

### event_time (google.protobuf.Timestamp)
- When the event occurred (business time)
- Should be REQUIRED or have OUTPUT_ONLY behavior
- Use event_time or occurred_at, not just "timestamp"
- Distinct from published_at (when sent to message bus)

### event_type (string)
- Fully qualified type name
- Example: "com.example.orders.v1.OrderCreated"
- Enables routing and polymorphic handling
- Consider including in all events for clarity

## Recommended Fields

### correlation_id (string)
- Links related events across a transaction/saga
- Propagated from initial request through all derived events
- Essential for debugging distributed systems

### causation_id (string)
- ID of the event that directly caused this event
- Enables event chain reconstruction
- Different from correlation_id (which spans entire saga)

### trace_id / span_id (string)
- OpenTelemetry/distributed tracing identifiers
- Enables end-to-end request tracing
- Format: W3C Trace Context or similar

### source (string)
- Service or system that produced the event
- Examples: "order-service", "payment-gateway"
- Helps identify event origin in multi-service systems

### schema_version (int32)
- Version of the event schema
- Helps consumers handle schema evolution
- Increment for breaking changes

## Example Event Message

` + "```protobuf" + `
message OrderCreatedEvent {
  // Identity
  string event_id = 1;
  string event_type = 2;  // "com.example.orders.v1.OrderCreated"

  // Timing
  google.protobuf.Timestamp event_time = 3;
  google.protobuf.Timestamp published_at = 4;

  // Correlation
  string correlation_id = 5;
  string causation_id = 6;
  string trace_id = 7;
  string span_id = 8;

  // Metadata
  string source = 9;
  int32 schema_version = 10;

  // Payload
  Order order = 11;
}
` + "```" + `

## Common Anti-Patterns

- Missing event_id (can't deduplicate)
- Using entity ID as event ID (confuses identity)
- String timestamps instead of google.protobuf.Timestamp
- No correlation/causation tracking
- Enum without UNSPECIFIED = 0
`
