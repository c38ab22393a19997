/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package tools

import (
	"context"

	"protoreview.dev/reviewer/schema"
	"protoreview.dev/reviewer/tools/params"
)

type lookupOrgArgs struct {
	StandardID string `json:"standard_id" jsonschema:"description=The organizational standard ID (e.g. 'ORG-001' for event identification),required"`
}

var (
	lookupOrgDecl = Declaration{
		Name:        "lookup_org_standard",
		Description: "Look up guidance for a specific organizational standard",
		Parameters:  schema.MustFor[lookupOrgArgs](),
	}
	listOrgDecl = Declaration{
		Name:        "list_org_standards",
		Description: "List all organizational standards available",
		Parameters:  schema.MustFor[noArgs](),
	}
)

func (r *Registry) lookupOrgStandard(_ context.Context, args map[string]any) (string, error) {
	id, err := params.Extract[string](args, "standard_id")
	if err != nil {
		return "", err
	}
	return r.base.OrgSummary(id), nil
}

func (r *Registry) listOrgStandards(_ context.Context, _ map[string]any) (string, error) {
	return r.base.OrgList(), nil
}
