/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package onchain checks an entity against contract state: registry
// membership, the collateral of a vault and the provenance of a vault's
// rewards contracts.
//
// Every read goes through a Reader, which bounds each call with a timeout
// and never retries. A read that the contract answers with a revert or with
// no data is distinguished from a transport failure by IsContractError.
//
// # Basic Usage
//
//	client, err := chain.Dial(ctx, c, rpcURL)
//	if err != nil {
//		return err
//	}
//	reader := onchain.NewReader(client, 30*time.Second)
//	v := onchain.NewEntityValidator(reader, notifier, messages, c.Name, registries)
//	if err := v.Validate(ctx, descriptor); err != nil {
//		return err
//	}
package onchain
