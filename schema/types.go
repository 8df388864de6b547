/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema

// Link is an external resource describing an entity.
type Link struct {
	Type string `json:"type" jsonschema:"required,enum=website,enum=explorer,enum=docs,enum=example,description=Kind of resource the link points to"`
	Name string `json:"name" jsonschema:"required,minLength=1"`
	URL  string `json:"url" jsonschema:"required,format=uri"`
}

// Info is the metadata document shared by every entity type.
type Info struct {
	Name        string   `json:"name" jsonschema:"required,minLength=1,description=Display name of the entity"`
	Description string   `json:"description" jsonschema:"required,description=Short description of the entity"`
	Tags        []string `json:"tags,omitempty" jsonschema:"uniqueItems=true"`
	Links       []Link   `json:"links,omitempty"`
}

// Reward declares a rewards contract distributing staking rewards for a vault.
type Reward struct {
	Address string `json:"address" jsonschema:"required,pattern=^0x[a-fA-F0-9]{40}$"`
	Type    string `json:"type" jsonschema:"required,minLength=1"`
}

// VaultInfo is the metadata document of a vault.
type VaultInfo struct {
	Info
	Rewards []Reward `json:"rewards,omitempty"`
}
