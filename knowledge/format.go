/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package knowledge

import (
	"fmt"
	"strings"
)

// AIPSummary renders one AIP as markdown guidance the model can quote.
func (b *Base) AIPSummary(number int) string {
	aip, ok := b.AIP(number)
	if !ok {
		return fmt.Sprintf("AIP-%d not found in knowledge base.", number)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# AIP-%d: %s\n\n%s\n\n## Semantic Rules\n\n", aip.Number, aip.Title, aip.Summary)
	writeRules(&sb, aip.Rules)
	return strings.TrimRight(sb.String(), "\n")
}

// AIPList renders a brief listing of every loaded AIP.
func (b *Base) AIPList() string {
	var sb strings.Builder
	sb.WriteString("# Available AIP Standards\n\n")
	for _, aip := range b.AIPs() {
		fmt.Fprintf(&sb, "- **AIP-%d**: %s\n", aip.Number, aip.Title)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// OrgSummary renders one organizational standard as markdown guidance.
func (b *Base) OrgSummary(id string) string {
	std, ok := b.Org(id)
	if !ok {
		return fmt.Sprintf("Organizational standard %q not found.", id)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s: %s\n\n%s\n\n**Applies to:** %s\n\n", std.ID, std.Title, std.Summary, std.AppliesTo)
	if len(std.RelatedAIPs) > 0 {
		fmt.Fprintf(&sb, "**Related AIPs:** %s\n", strings.Join(std.RelatedAIPs, ", "))
		sb.WriteString("(Use lookup_aip() for detailed AIP guidance)\n\n")
	}
	sb.WriteString("## Semantic Rules\n\n")
	writeRules(&sb, std.Rules)
	return strings.TrimRight(sb.String(), "\n")
}

// OrgList renders a brief listing of every organizational standard.
func (b *Base) OrgList() string {
	if len(b.orgs) == 0 {
		return "No organizational standards defined."
	}

	var sb strings.Builder
	sb.WriteString("# Organizational Standards\n\n")
	sb.WriteString("These are organization-specific rules that extend the universal AIP standards.\n\n")
	for _, std := range b.Orgs() {
		fmt.Fprintf(&sb, "- **%s**: %s\n  Applies to: %s\n", std.ID, std.Title, std.AppliesTo)
	}
	sb.WriteString("\nUse lookup_org_standard(standard_id) for detailed guidance.")
	return sb.String()
}

func writeRules(sb *strings.Builder, rules []SemanticRule) {
	for _, rule := range rules {
		fmt.Fprintf(sb, "### %s\n", rule.ID)
		fmt.Fprintf(sb, "**Description:** %s\n", rule.Description)
		fmt.Fprintf(sb, "**What to check:** %s\n", rule.CheckGuidance)
		if len(rule.Violations) > 0 {
			sb.WriteString("**Common violations:**\n")
			for _, v := range rule.Violations {
				fmt.Fprintf(sb, "  - %s\n", v)
			}
		}
		if rule.GoodExample != "" {
			fmt.Fprintf(sb, "**Good example:**\n```protobuf\n%s\n```\n", strings.TrimSpace(rule.GoodExample))
		}
		if rule.BadExample != "" {
			fmt.Fprintf(sb, "**Bad example:**\n```protobuf\n%s\n```\n", strings.TrimSpace(rule.BadExample))
		}
		sb.WriteString("\n")
	}
}
