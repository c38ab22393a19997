/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package tools

import (
	"context"
	"fmt"
	"strings"

	"protoreview.dev/reviewer/knowledge"
	"protoreview.dev/reviewer/schema"
	"protoreview.dev/reviewer/tools/params"
)

type lookupAIPArgs struct {
	AIPNumber int `json:"aip_number" jsonschema:"description=The AIP number (e.g. 132 for pagination or 142 for timestamps),required"`
}

type lookupTypeArgs struct {
	SemanticConcept string `json:"semantic_concept" jsonschema:"description=The concept to look up (e.g. 'timestamp' or 'money' or 'duration' or 'location'),required"`
}

type analyzeFieldArgs struct {
	FieldName string `json:"field_name" jsonschema:"description=The name of the field (e.g. 'create_time' or 'price'),required"`
	FieldType string `json:"field_type" jsonschema:"description=The current type of the field (e.g. 'string' or 'int64'),required"`
}

type methodPatternArgs struct {
	MethodType string `json:"method_type" jsonschema:"description=The method type: Get or List or Create or Update or Delete,required"`
}

var (
	lookupAIPDecl = Declaration{
		Name:        "lookup_aip",
		Description: "Look up guidance for a specific AIP (API Improvement Proposal) standard",
		Parameters:  schema.MustFor[lookupAIPArgs](),
	}
	listAIPsDecl = Declaration{
		Name:        "list_available_aips",
		Description: "List all AIP standards available in the knowledge base",
		Parameters:  schema.MustFor[noArgs](),
	}
	lookupTypeDecl = Declaration{
		Name:        "lookup_type_recommendation",
		Description: "Look up the recommended protobuf type for a semantic concept",
		Parameters:  schema.MustFor[lookupTypeArgs](),
	}
	analyzeFieldDecl = Declaration{
		Name:        "analyze_field_semantics",
		Description: "Analyze whether a field's type matches its semantic intent based on naming",
		Parameters:  schema.MustFor[analyzeFieldArgs](),
	}
	standardFieldsDecl = Declaration{
		Name:        "get_standard_fields_guidance",
		Description: "Get guidance on standard fields that resources should include (per AIP-148)",
		Parameters:  schema.MustFor[noArgs](),
	}
	methodPatternDecl = Declaration{
		Name:        "get_method_pattern_guidance",
		Description: "Get guidance on request/response patterns for standard methods",
		Parameters:  schema.MustFor[methodPatternArgs](),
	}
)

func (r *Registry) lookupAIP(_ context.Context, args map[string]any) (string, error) {
	number, err := params.Extract[int](args, "aip_number")
	if err != nil {
		return "", err
	}
	return r.base.AIPSummary(number), nil
}

func (r *Registry) listAvailableAIPs(_ context.Context, _ map[string]any) (string, error) {
	return r.base.AIPList(), nil
}

func (r *Registry) lookupTypeRecommendation(_ context.Context, args map[string]any) (string, error) {
	concept, err := params.Extract[string](args, "semantic_concept")
	if err != nil {
		return "", err
	}

	if wkt, ok := knowledge.TypeInfo(concept); ok {
		return typeSummary(wkt), nil
	}

	// Not a type name; fall back to semantic rules that mention the concept.
	if related := r.base.RulesForConcept(concept); len(related) > 0 {
		var sb strings.Builder
		fmt.Fprintf(&sb, "# Related guidance for '%s'\n\n", concept)
		for _, cr := range related {
			fmt.Fprintf(&sb, "## AIP-%d: %s\n", cr.AIPNumber, cr.Rule.ID)
			fmt.Fprintf(&sb, "%s\n", cr.Rule.Description)
			fmt.Fprintf(&sb, "**Check:** %s\n\n", cr.Rule.CheckGuidance)
		}
		return strings.TrimRight(sb.String(), "\n"), nil
	}

	return fmt.Sprintf("No specific type recommendation found for '%s'. Consider checking related AIPs with list_available_aips().", concept), nil
}

func typeSummary(wkt knowledge.WellKnownType) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", wkt.FullName)
	fmt.Fprintf(&sb, "**Description:** %s\n\n", wkt.Description)
	fmt.Fprintf(&sb, "**When to use:** %s\n\n", wkt.WhenToUse)

	if len(wkt.FieldPatterns) > 0 {
		sb.WriteString("**Common field name patterns:**\n")
		for _, p := range wkt.FieldPatterns {
			fmt.Fprintf(&sb, "  - %s\n", readablePattern(p))
		}
		sb.WriteString("\n")
	}
	if len(wkt.BadAlternatives) > 0 {
		sb.WriteString("**Avoid these alternatives:**\n")
		for _, alt := range wkt.BadAlternatives {
			fmt.Fprintf(&sb, "  - %s\n", alt)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "**Example:**\n```protobuf%s```", wkt.Example)
	return sb.String()
}

func readablePattern(p string) string {
	return strings.NewReplacer(".*", "*", "$", "", "^", "").Replace(p)
}

func (r *Registry) analyzeFieldSemantics(_ context.Context, args map[string]any) (string, error) {
	fieldName, err := params.Extract[string](args, "field_name")
	if err != nil {
		return "", err
	}
	fieldType, err := params.Extract[string](args, "field_type")
	if err != nil {
		return "", err
	}

	wkt, reason, ok := knowledge.Recommend(fieldName, fieldType)
	if !ok {
		return fmt.Sprintf("The type '%s' appears appropriate for field '%s'. No semantic mismatch detected.", fieldType, fieldName), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Type Recommendation for '%s'\n\n", fieldName)
	fmt.Fprintf(&sb, "**Current type:** %s\n", fieldType)
	fmt.Fprintf(&sb, "**Recommended type:** %s\n\n", wkt.FullName)
	fmt.Fprintf(&sb, "**Reason:** %s\n\n", reason)
	fmt.Fprintf(&sb, "**Why %s:** %s\n\n", wkt.ShortName, wkt.WhenToUse)

	if len(wkt.BadAlternatives) > 0 {
		sb.WriteString("**Problems with current approach:**\n")
		for _, alt := range wkt.BadAlternatives {
			if strings.Contains(strings.ToLower(alt), strings.ToLower(fieldType)) {
				fmt.Fprintf(&sb, "  - %s\n", alt)
			}
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "**Example:**\n```protobuf%s```", wkt.Example)
	return sb.String(), nil
}

func (r *Registry) standardFieldsGuidance(_ context.Context, _ map[string]any) (string, error) {
	return standardFieldsDoc, nil
}

func (r *Registry) methodPatternGuidance(_ context.Context, args map[string]any) (string, error) {
	methodType, err := params.Extract[string](args, "method_type")
	if err != nil {
		return "", err
	}

	switch strings.ToLower(methodType) {
	case "get":
		return r.base.AIPSummary(131), nil
	case "list":
		return r.base.AIPSummary(132), nil
	case "create":
		return r.base.AIPSummary(133), nil
	case "update":
		return r.base.AIPSummary(134), nil
	case "delete":
		return r.base.AIPSummary(135), nil
	default:
		return fmt.Sprintf("Unknown method type: %s. Standard methods are: Get, List, Create, Update, Delete.", methodType), nil
	}
}

const standardFieldsDoc = `# Standard Resource Fields (AIP-148)

Resources should typically include these standard fields:

## Required for most resources

### name (string)
- The resource's unique identifier
- Format: ` + "`{collection}/{resource_id}`" + ` or full path
- Should be field number 1
- Annotate with ` + "`[(google.api.field_behavior) = IDENTIFIER]`" + `

### create_time (google.protobuf.Timestamp)
- When the resource was created
- Should be OUTPUT_ONLY
- Use ` + "`create_time`" + `, not ` + "`created_at`" + ` or ` + "`creation_time`" + `

### update_time (google.protobuf.Timestamp)
- When the resource was last modified
- Should be OUTPUT_ONLY
- Use ` + "`update_time`" + `, not ` + "`updated_at`" + ` or ` + "`modification_time`" + `

## Often needed

### delete_time (google.protobuf.Timestamp)
- When the resource was soft-deleted
- Only present if the resource supports soft delete
- Use instead of boolean ` + "`is_deleted`" + `

### etag (string)
- For optimistic concurrency control
- Include if resource supports concurrent updates
- Clients use this with If-Match for safe updates

### uid (string)
- System-generated unique identifier
- Immutable, never reused
- Use instead of separate ` + "`uuid`" + ` field

## For specific patterns

### display_name (string)
- Human-readable name
- Distinct from ` + "`name`" + ` (the resource identifier)

### description (string)
- Longer description of the resource

### labels (map<string, string>)
- User-defined key-value metadata

### annotations (map<string, string>)
- Larger, less structured metadata
`
