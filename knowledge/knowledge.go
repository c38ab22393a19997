/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package knowledge holds the standards the reviewer checks protos against:
// AIP standards (Google's universal best practices) and organizational
// standards (ORG-XXX rules layered on top). Standards live in YAML files so
// organizations can replace or extend them with a volume mount, no code
// change required.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/chainguard-dev/clog"
	"gopkg.in/yaml.v3"
)

// SemanticRule is a single checkable rule within a standard.
type SemanticRule struct {
	ID            string   `yaml:"id"`
	Description   string   `yaml:"description"`
	CheckGuidance string   `yaml:"check_guidance"`
	Violations    []string `yaml:"violations"`
	GoodExample   string   `yaml:"good_example"`
	BadExample    string   `yaml:"bad_example"`
}

// AIPStandard is one AIP with its semantic rules.
type AIPStandard struct {
	Number  int            `yaml:"id"`
	Title   string         `yaml:"title"`
	Summary string         `yaml:"summary"`
	Rules   []SemanticRule `yaml:"rules"`
}

// OrgStandard is an organization-specific standard. AppliesTo describes, in
// prose, which messages the standard targets; the model reads it to decide
// relevance.
type OrgStandard struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Summary     string         `yaml:"summary"`
	AppliesTo   string         `yaml:"applies_to"`
	Rules       []SemanticRule `yaml:"rules"`
	RelatedAIPs []string       `yaml:"related_aips"`
}

// Base is an immutable, loaded standards set. Construct one with Load and
// share it freely; concurrent readers need no locking.
type Base struct {
	aips map[int]AIPStandard
	orgs map[string]OrgStandard
}

// Load reads every *.yaml under dir/aips and dir/org. A missing
// subdirectory yields an empty (but usable) section; an unreadable or
// malformed file is skipped with a log line rather than failing the whole
// load, matching how a partially customized standards mount should behave.
func Load(ctx context.Context, dir string) (*Base, error) {
	return LoadFS(ctx, os.DirFS(dir), ".")
}

// LoadFS is Load over an fs.FS, used for the compiled-in standards.
func LoadFS(ctx context.Context, fsys fs.FS, dir string) (*Base, error) {
	log := clog.FromContext(ctx)

	b := &Base{
		aips: map[int]AIPStandard{},
		orgs: map[string]OrgStandard{},
	}

	aipDir := path.Join(dir, "aips")
	if err := eachYAML(fsys, aipDir, func(path string, data []byte) {
		var aip AIPStandard
		if err := yaml.Unmarshal(data, &aip); err != nil {
			log.With("path", path).Warnf("skipping malformed AIP standard: %v", err)
			return
		}
		aip.Summary = strings.TrimSpace(aip.Summary)
		b.aips[aip.Number] = aip
	}); err != nil {
		return nil, fmt.Errorf("loading AIP standards from %s: %w", aipDir, err)
	}

	orgDir := path.Join(dir, "org")
	if err := eachYAML(fsys, orgDir, func(path string, data []byte) {
		var org OrgStandard
		if err := yaml.Unmarshal(data, &org); err != nil {
			log.With("path", path).Warnf("skipping malformed ORG standard: %v", err)
			return
		}
		org.Summary = strings.TrimSpace(org.Summary)
		b.orgs[strings.ToUpper(org.ID)] = org
	}); err != nil {
		return nil, fmt.Errorf("loading ORG standards from %s: %w", orgDir, err)
	}

	log.With("dir", dir, "aips", len(b.aips), "orgs", len(b.orgs)).Info("loaded standards")
	return b, nil
}

func eachYAML(fsys fs.FS, dir string, fn func(path string, data []byte)) error {
	entries, err := fs.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		name := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		fn(name, data)
	}
	return nil
}

// AIP returns the standard for one AIP number.
func (b *Base) AIP(number int) (AIPStandard, bool) {
	aip, ok := b.aips[number]
	return aip, ok
}

// AIPs returns all AIP standards ordered by number.
func (b *Base) AIPs() []AIPStandard {
	out := make([]AIPStandard, 0, len(b.aips))
	for _, aip := range b.aips {
		out = append(out, aip)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Org returns one organizational standard; lookup is case-insensitive.
func (b *Base) Org(id string) (OrgStandard, bool) {
	org, ok := b.orgs[strings.ToUpper(id)]
	return org, ok
}

// Orgs returns all organizational standards ordered by ID.
func (b *Base) Orgs() []OrgStandard {
	out := make([]OrgStandard, 0, len(b.orgs))
	for _, org := range b.orgs {
		out = append(out, org)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ConceptRule pairs a rule with the AIP it came from.
type ConceptRule struct {
	AIPNumber int
	Rule      SemanticRule
}

// RulesForConcept finds rules mentioning a concept such as "timestamp" or
// "pagination" in their id, description, or check guidance.
func (b *Base) RulesForConcept(concept string) []ConceptRule {
	concept = strings.ToLower(concept)
	var out []ConceptRule
	for _, aip := range b.AIPs() {
		for _, rule := range aip.Rules {
			if strings.Contains(strings.ToLower(rule.Description), concept) ||
				strings.Contains(strings.ToLower(rule.CheckGuidance), concept) ||
				strings.Contains(strings.ToLower(rule.ID), concept) {
				out = append(out, ConceptRule{AIPNumber: aip.Number, Rule: rule})
			}
		}
	}
	return out
}
