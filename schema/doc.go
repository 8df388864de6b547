/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives the JSON Schemas of entity metadata documents from
// Go types using invopop/jsonschema, and selects one per entity type.
//
// The Go types double as decoding targets: the rewards check decodes a
// vault's info.json into VaultInfo.
//
// # Basic Usage
//
//	reg := schema.DefaultRegistry()
//	b, err := reg.JSON(entity.Vaults)
//	if err != nil {
//		return err
//	}
package schema
