/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package knowledge

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func loadTestBase(t *testing.T) *Base {
	t.Helper()
	b, err := Load(context.Background(), "testdata/standards")
	require.NoError(t, err)
	return b
}

func TestLoad(t *testing.T) {
	b := loadTestBase(t)

	// broken.yaml is skipped, the two valid AIPs load.
	if got := len(b.AIPs()); got != 2 {
		t.Errorf("loaded %d AIPs, want 2", got)
	}

	aip, ok := b.AIP(142)
	if !ok {
		t.Fatal("AIP-142 not loaded")
	}
	if aip.Title != "Time and Duration" {
		t.Errorf("AIP-142 title = %q", aip.Title)
	}
	if len(aip.Rules) != 1 || aip.Rules[0].ID != "timestamp-type" {
		t.Errorf("AIP-142 rules = %+v", aip.Rules)
	}
	if strings.HasSuffix(aip.Summary, "\n") {
		t.Error("summary not trimmed")
	}

	org, ok := b.Org("org-001")
	if !ok {
		t.Fatal("ORG-001 not found via case-insensitive lookup")
	}
	if org.AppliesTo != "Messages ending in Event" {
		t.Errorf("AppliesTo = %q", org.AppliesTo)
	}
	if len(org.RelatedAIPs) != 1 || org.RelatedAIPs[0] != "AIP-142" {
		t.Errorf("RelatedAIPs = %v", org.RelatedAIPs)
	}
}

func TestLoadMissingDir(t *testing.T) {
	b, err := Load(context.Background(), "testdata/does-not-exist")
	require.NoError(t, err)
	if len(b.AIPs()) != 0 || len(b.Orgs()) != 0 {
		t.Error("expected empty base for missing directory")
	}
	// An empty base still answers lookups with not-found text.
	if got := b.AIPSummary(142); !strings.Contains(got, "not found") {
		t.Errorf("AIPSummary on empty base = %q", got)
	}
}

func TestAIPSummary(t *testing.T) {
	b := loadTestBase(t)

	got := b.AIPSummary(142)
	for _, want := range []string{
		"# AIP-142: Time and Duration",
		"## Semantic Rules",
		"### timestamp-type",
		"**Common violations:**",
		"```protobuf",
		"google.protobuf.Timestamp create_time = 1;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("AIPSummary missing %q in:\n%s", want, got)
		}
	}

	if got := b.AIPSummary(999); got != "AIP-999 not found in knowledge base." {
		t.Errorf("unknown AIP = %q", got)
	}
}

func TestAIPList(t *testing.T) {
	b := loadTestBase(t)
	got := b.AIPList()
	i142 := strings.Index(got, "AIP-142")
	i158 := strings.Index(got, "AIP-158")
	if i142 < 0 || i158 < 0 || i142 > i158 {
		t.Errorf("AIPList not ordered by number:\n%s", got)
	}
}

func TestOrgSummary(t *testing.T) {
	b := loadTestBase(t)

	got := b.OrgSummary("ORG-001")
	for _, want := range []string{
		"# ORG-001: Event identification",
		"**Applies to:** Messages ending in Event",
		"**Related AIPs:** AIP-142",
		"### event-id-required",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("OrgSummary missing %q in:\n%s", want, got)
		}
	}

	if got := b.OrgSummary("ORG-999"); !strings.Contains(got, "not found") {
		t.Errorf("unknown ORG = %q", got)
	}
}

func TestOrgListEmpty(t *testing.T) {
	b, err := Load(context.Background(), "testdata/does-not-exist")
	require.NoError(t, err)
	if got := b.OrgList(); got != "No organizational standards defined." {
		t.Errorf("OrgList on empty base = %q", got)
	}
}

func TestRulesForConcept(t *testing.T) {
	b := loadTestBase(t)

	got := b.RulesForConcept("timestamp")
	if len(got) != 1 {
		t.Fatalf("RulesForConcept(timestamp) = %d rules, want 1", len(got))
	}
	if got[0].AIPNumber != 142 || got[0].Rule.ID != "timestamp-type" {
		t.Errorf("unexpected rule: %+v", got[0])
	}

	if got := b.RulesForConcept("nonexistent-concept"); len(got) != 0 {
		t.Errorf("expected no rules, got %d", len(got))
	}
}
