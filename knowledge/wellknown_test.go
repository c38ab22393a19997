/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package knowledge

import (
	"strings"
	"testing"
)

func TestRecommend(t *testing.T) {
	tests := []struct {
		name        string
		fieldName   string
		currentType string
		wantType    string // FullName, or "" for no recommendation
	}{{
		name:        "string timestamp",
		fieldName:   "created_at",
		currentType: "string",
		wantType:    "google.protobuf.Timestamp",
	}, {
		name:        "int64 time field",
		fieldName:   "expire_time",
		currentType: "int64",
		wantType:    "google.protobuf.Timestamp",
	}, {
		name:        "already a timestamp",
		fieldName:   "create_time",
		currentType: "google.protobuf.Timestamp",
		wantType:    "",
	}, {
		name:        "timeout seconds",
		fieldName:   "timeout_seconds",
		currentType: "int32",
		wantType:    "google.protobuf.Duration",
	}, {
		name:        "double price",
		fieldName:   "price",
		currentType: "double",
		wantType:    "google.type.Money",
	}, {
		name:        "total amount as string",
		fieldName:   "total_amount",
		currentType: "string",
		wantType:    "google.type.Money",
	}, {
		// Timestamp's .*_date pattern is matched before Date's, so date
		// fields recommend Timestamp.
		name:        "birth date string",
		fieldName:   "birth_date",
		currentType: "string",
		wantType:    "google.protobuf.Timestamp",
	}, {
		name:        "location string",
		fieldName:   "location",
		currentType: "string",
		wantType:    "google.type.LatLng",
	}, {
		name:        "plain string name",
		fieldName:   "display_name",
		currentType: "string",
		wantType:    "",
	}, {
		name:        "bool flag",
		fieldName:   "disabled",
		currentType: "bool",
		wantType:    "",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wkt, reason, ok := Recommend(tt.fieldName, tt.currentType)
			if tt.wantType == "" {
				if ok {
					t.Fatalf("Recommend(%q, %q) = %s, want none", tt.fieldName, tt.currentType, wkt.FullName)
				}
				return
			}
			if !ok {
				t.Fatalf("Recommend(%q, %q) made no recommendation, want %s", tt.fieldName, tt.currentType, tt.wantType)
			}
			if wkt.FullName != tt.wantType {
				t.Errorf("recommended %s, want %s", wkt.FullName, tt.wantType)
			}
			if !strings.Contains(reason, tt.fieldName) {
				t.Errorf("reason %q does not mention the field", reason)
			}
		})
	}
}

func TestTypeInfo(t *testing.T) {
	tests := []struct {
		query    string
		wantFull string
		wantOK   bool
	}{
		{"Timestamp", "google.protobuf.Timestamp", true},
		{"timestamp", "google.protobuf.Timestamp", true},
		{"google.type.Money", "google.type.Money", true},
		{"MONEY", "google.type.Money", true},
		{"Widget", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			wkt, ok := TypeInfo(tt.query)
			if ok != tt.wantOK {
				t.Fatalf("TypeInfo(%q) ok = %v, want %v", tt.query, ok, tt.wantOK)
			}
			if ok && wkt.FullName != tt.wantFull {
				t.Errorf("TypeInfo(%q) = %s, want %s", tt.query, wkt.FullName, tt.wantFull)
			}
		})
	}
}

func TestTypeReference(t *testing.T) {
	got := TypeReference()
	for _, want := range []string{
		"## google.protobuf.Timestamp",
		"## google.type.Money",
		"**When to use:**",
		"**Avoid:**",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("TypeReference missing %q", want)
		}
	}
	// Readable patterns have regexp syntax stripped.
	if strings.Contains(got, ".*") || strings.Contains(got, "$") {
		t.Error("TypeReference leaks regexp syntax")
	}
}
