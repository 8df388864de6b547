/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package entity defines the registry layout: entity types, the address
// format that keys every entity directory, and the Descriptor produced for
// a pull request's change set.
//
// Every entity lives in exactly one directory of the form
// "{type}/{address}" holding an info.json metadata file and an optional
// logo.png image.
//
// Examples:
//   - "vaults/0x1BfBd3D9B1E4F1dAe24A3A07De9D57C3E7d4C9c3/info.json"
//   - "tokens/0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2/logo.png"
package entity

import (
	"path"
	"regexp"
	"slices"
)

// Type is the kind of registry entity, which is also its top-level directory.
type Type string

const (
	Vaults    Type = "vaults"
	Operators Type = "operators"
	Networks  Type = "networks"
	Tokens    Type = "tokens"
)

// Types lists every supported entity type.
var Types = []Type{Vaults, Operators, Networks, Tokens}

const (
	// MetadataFile is the required metadata document of every entity.
	MetadataFile = "info.json"

	// LogoFile is the optional logo image of an entity.
	LogoFile = "logo.png"
)

// AllowedFiles lists the only filenames permitted inside an entity directory.
var AllowedFiles = []string{MetadataFile, LogoFile}

// addressRegex matches a 0x-prefixed 20-byte hex address in any casing.
var addressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// ParseType returns the Type named by s, if it is one of Types.
func ParseType(s string) (Type, bool) {
	t := Type(s)
	return t, slices.Contains(Types, t)
}

// IsAddress reports whether s is a valid entity address.
func IsAddress(s string) bool {
	return addressRegex.MatchString(s)
}

// IsAllowedFile reports whether name may appear inside an entity directory.
func IsAllowedFile(name string) bool {
	return slices.Contains(AllowedFiles, name)
}

// Label returns the human readable singular name of the type, e.g. "Vault".
func (t Type) Label() string {
	switch t {
	case Vaults:
		return "Vault"
	case Operators:
		return "Operator"
	case Networks:
		return "Network"
	case Tokens:
		return "Token"
	default:
		return string(t)
	}
}

// Descriptor is the normalized view of a change set that touches a single
// entity. It is built once per validation run and never persisted.
type Descriptor struct {
	// Type is the entity type, taken from the parent directory.
	Type Type `json:"entityType"`

	// ID is the entity address with its original casing.
	ID string `json:"entityId"`

	// Metadata is the path of info.json when it was changed and still exists.
	Metadata string `json:"metadata,omitempty"`

	// Logo is the path of logo.png when it was changed and still exists.
	Logo string `json:"logo,omitempty"`

	// Deleted is true when the entity directory no longer has any files.
	Deleted bool `json:"isDeleted"`
}

// Dir returns the entity directory, "{type}/{address}".
func (d Descriptor) Dir() string {
	return path.Join(string(d.Type), d.ID)
}
