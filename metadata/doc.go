/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metadata validates an entity's info.json against the JSON Schema
// registered for its type and reports every violation as an inline review
// comment anchored to the line it came from.
//
// Schemas are authored as Go types in package schema, serialized, and
// compiled once per entity type with santhosh-tekuri/jsonschema. Source lines
// are recovered from a YAML AST of the document, since every JSON document
// is also a YAML flow document.
//
// # Basic Usage
//
//	v := metadata.New(os.DirFS(root), notifier, failure.Messages{}, schema.DefaultRegistry())
//	if err := v.Validate(ctx, descriptor); err != nil {
//		return err
//	}
package metadata
