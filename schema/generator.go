/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"encoding/json"
	"fmt"

	"chainguard.dev/registryguard/entity"
	"github.com/invopop/jsonschema"
)

// Generator wraps jsonschema.Reflector with the defaults used for metadata
// documents: every struct is inlined and unknown properties are rejected.
type Generator struct {
	reflector jsonschema.Reflector
}

// NewGenerator constructs a generator wired with the metadata defaults.
func NewGenerator() *Generator {
	return &Generator{
		reflector: jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			ExpandedStruct:             true,
			AllowAdditionalProperties:  false,
			DoNotReference:             true,
			Anonymous:                  true,
		},
	}
}

// Reflect returns the JSON schema for the provided value.
func (g *Generator) Reflect(v any) *jsonschema.Schema {
	return g.reflector.Reflect(v)
}

// ReflectType allocates a zero value of T and reflects it to a schema.
func ReflectType[T any]() *jsonschema.Schema {
	var zero T
	return NewGenerator().Reflect(&zero)
}

// Registry selects the metadata schema for an entity type.
type Registry struct {
	fallback *jsonschema.Schema
	byType   map[entity.Type]*jsonschema.Schema
}

// DefaultRegistry returns the registry used in production: vaults carry
// rewards declarations, every other type uses the shared Info schema.
func DefaultRegistry() *Registry {
	return &Registry{
		fallback: ReflectType[Info](),
		byType: map[entity.Type]*jsonschema.Schema{
			entity.Vaults: ReflectType[VaultInfo](),
		},
	}
}

// NewRegistry builds a registry with a fallback schema and per-type overrides.
func NewRegistry(fallback *jsonschema.Schema, byType map[entity.Type]*jsonschema.Schema) *Registry {
	return &Registry{fallback: fallback, byType: byType}
}

// For returns the schema registered for t, or the fallback.
func (r *Registry) For(t entity.Type) *jsonschema.Schema {
	if s, ok := r.byType[t]; ok {
		return s
	}
	return r.fallback
}

// JSON returns the serialized schema for t.
func (r *Registry) JSON(t entity.Type) ([]byte, error) {
	b, err := json.Marshal(r.For(t))
	if err != nil {
		return nil, fmt.Errorf("marshaling %s schema: %w", t, err)
	}
	return b, nil
}
