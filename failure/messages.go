/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package failure

import (
	"fmt"
	"strings"

	"chainguard.dev/registryguard/notify"
)

// DefaultGuidelinesURL is linked from every notice unless overridden.
const DefaultGuidelinesURL = "https://github.com/symbioticfi/metadata-holesky/blob/main/README.md"

// Messages renders failures. The zero value links DefaultGuidelinesURL.
type Messages struct {
	GuidelinesURL string
}

func (m Messages) guidelines() string {
	u := m.GuidelinesURL
	if u == "" {
		u = DefaultGuidelinesURL
	}
	return fmt.Sprintf("Please, follow the [contribution guidelines](%s).", u)
}

// bullets renders items as a markdown list.
func bullets(items []string) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(item)
	}
	return sb.String()
}

// NotAllowedChanges reports paths outside the entity directory convention.
func (m Messages) NotAllowedChanges(paths []string) *Failure {
	return &Failure{
		Kind:   NotAllowedChanges,
		Reason: "The pull request includes changes outside the allowed directories: " + strings.Join(paths, ", "),
		Comment: fmt.Sprintf("We detected changes in the pull request that are not allowed. %s\n\n**Not allowed files:**\n%s\n",
			m.guidelines(), bullets(paths)),
	}
}

// MultipleEntities reports a change set touching more than one entity.
func (m Messages) MultipleEntities(dirs []string) *Failure {
	return &Failure{
		Kind:   MultipleEntities,
		Reason: "Several entities are changed in one pull request",
		Comment: fmt.Sprintf("It is not allowed to change more than one entity in a single pull request. %s\n\n**Entities:**\n%s\n",
			m.guidelines(), bullets(dirs)),
	}
}

// MissingMetadata reports an entity directory without info.json.
func (m Messages) MissingMetadata(dir string) *Failure {
	return &Failure{
		Kind:    MissingMetadata,
		Reason:  fmt.Sprintf("`info.json` is not found in the entity folder `%s`", dir),
		Comment: fmt.Sprintf("The entity folder `%s` should have `info.json` file. %s", dir, m.guidelines()),
	}
}

// EmptyChangeSet reports a pull request that changes no files.
func (m Messages) EmptyChangeSet() *Failure {
	return &Failure{
		Kind:    EmptyChangeSet,
		Reason:  "The pull request does not change any entity",
		Comment: fmt.Sprintf("We could not find any entity changes in the pull request. %s", m.guidelines()),
	}
}

// InvalidMetadata reports schema violations as inline review comments.
func (m Messages) InvalidMetadata(path string, comments []notify.ReviewComment) *Failure {
	return &Failure{
		Kind:   InvalidMetadata,
		Reason: fmt.Sprintf("The `info.json` file is invalid (%d issue(s) in `%s`)", len(comments), path),
		Review: &notify.Review{
			Body:     fmt.Sprintf("The `info.json` file is invalid. %s", m.guidelines()),
			Comments: comments,
		},
	}
}

// InvalidLogo reports every unmet logo requirement.
func (m Messages) InvalidLogo(path string, problems []string) *Failure {
	return &Failure{
		Kind:   InvalidLogo,
		Reason: fmt.Sprintf("The logo `%s` is invalid", path),
		Comment: fmt.Sprintf("The logo image is invalid. %s\n\n**Unmet requirements:**\n%s\n",
			m.guidelines(), bullets(problems)),
	}
}

// UnregisteredEntity reports an entity missing from its on-chain registry.
func (m Messages) UnregisteredEntity(label, id, chainName, registry string) *Failure {
	return &Failure{
		Kind: UnregisteredEntity,
		Reason: fmt.Sprintf("%s `%s` is not registered in %s registry on %s network (registry address: `%s`)",
			label, id, strings.ToLower(label), chainName, registry),
		Comment: fmt.Sprintf("%s `%s` is not registered in the %s registry on %s network.\n\nRegistry address: `%s`\n\n%s",
			label, id, strings.ToLower(label), chainName, registry, m.guidelines()),
	}
}

// InvalidVault reports a vault address whose collateral cannot be read.
func (m Messages) InvalidVault(vault, chainName string) *Failure {
	return &Failure{
		Kind:   InvalidVault,
		Reason: fmt.Sprintf("Contract `%s` is not a valid Vault on %s network.", vault, chainName),
		Comment: fmt.Sprintf("Contract `%s` is not a valid Vault on %s network. Make sure the address is correct. %s",
			vault, chainName, m.guidelines()),
	}
}

// UnknownCollateral reports a vault collateral without a token entry.
func (m Messages) UnknownCollateral(token string) *Failure {
	return &Failure{
		Kind:   UnknownCollateral,
		Reason: fmt.Sprintf("Information for the vault collateral `%s` is not found in the repository.", token),
		Comment: fmt.Sprintf("Information for the vault collateral `%s` is not found in the repository. Please, add the token to the `tokens` folder first. %s",
			token, m.guidelines()),
	}
}

// InvalidRewardsType reports a rewards contract with an unsupported type.
func (m Messages) InvalidRewardsType(address, rewardsType, expected string) *Failure {
	return &Failure{
		Kind:   InvalidRewardsType,
		Reason: fmt.Sprintf("Rewards contract `%s` has invalid type `%s`. Expected: %s", address, rewardsType, expected),
		Comment: fmt.Sprintf("Rewards contract `%s` has unsupported type `%s`. The only supported type is `%s`. %s",
			address, rewardsType, expected, m.guidelines()),
	}
}

// RewardsNotFromFactory reports a rewards contract not deployed by the factory.
func (m Messages) RewardsNotFromFactory(address, factory, chainName string) *Failure {
	return &Failure{
		Kind: RewardsNotFromFactory,
		Reason: fmt.Sprintf("Rewards contract `%s` is not deployed by the rewards factory `%s` on %s network",
			address, factory, chainName),
		Comment: fmt.Sprintf("Rewards contract `%s` is not deployed by the rewards factory `%s` on %s network. %s",
			address, factory, chainName, m.guidelines()),
	}
}

// RewardsVaultMismatch reports a rewards contract bound to another vault.
func (m Messages) RewardsVaultMismatch(address, actual, expected string) *Failure {
	return &Failure{
		Kind:   RewardsVaultMismatch,
		Reason: fmt.Sprintf("Rewards contract `%s` is associated with vault `%s`, but expected `%s`", address, actual, expected),
		Comment: fmt.Sprintf("Rewards contract `%s` is associated with vault `%s`, but it is listed for vault `%s`. %s",
			address, actual, expected, m.guidelines()),
	}
}

// ChainUnsupportedError reports an unknown chain id. It is a configuration
// error of the workflow, so nothing is posted to the pull request.
func ChainUnsupportedError(chainID uint64) *Failure {
	return &Failure{
		Kind:   ChainUnsupported,
		Reason: fmt.Sprintf("Chain with id %d is not supported", chainID),
	}
}
