/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives JSON Schema parameter objects for tool
// declarations from Go argument structs, so a tool's arguments are declared
// once as a type and the schema can never drift from it.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
	}
}

// For reflects T into a provider-agnostic JSON Schema object. Fields are
// required only when tagged `jsonschema:"required"`.
func For[T any]() (map[string]any, error) {
	var zero T
	s := reflector().Reflect(&zero)

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}
	// Provider APIs want a bare parameters object, not a full document.
	delete(obj, "$schema")
	delete(obj, "$id")
	if _, ok := obj["properties"]; !ok {
		obj["properties"] = map[string]any{}
	}
	return obj, nil
}

// MustFor is For for package-level declarations.
func MustFor[T any]() map[string]any {
	obj, err := For[T]()
	if err != nil {
		panic(err)
	}
	return obj
}
