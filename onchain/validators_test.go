/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package onchain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"chainguard.dev/registryguard/entity"
	"chainguard.dev/registryguard/failure"
	"chainguard.dev/registryguard/notify/notifytest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
)

const chainName = "Holesky"

var (
	factoryAddr = common.HexToAddress("0x00000000000000000000000000000000000000fa")
	rewardAddr  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	otherVault  = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func vaultDescriptor() *entity.Descriptor {
	return &entity.Descriptor{Type: entity.Vaults, ID: memberAddr.Hex()}
}

func TestEntityValidator(t *testing.T) {
	registries := map[entity.Type]string{
		entity.Vaults:    registryAddr.Hex(),
		entity.Operators: registryAddr.Hex(),
		entity.Networks:  "",
	}
	chain := &fakeChain{members: map[common.Address][]common.Address{registryAddr: {memberAddr}}}

	tests := []struct {
		name      string
		d         *entity.Descriptor
		wantKind  failure.Kind
		wantCalls int
	}{{
		name:      "registered vault",
		d:         vaultDescriptor(),
		wantCalls: 1,
	}, {
		name:      "unregistered operator",
		d:         &entity.Descriptor{Type: entity.Operators, ID: tokenAddr.Hex()},
		wantKind:  failure.UnregisteredEntity,
		wantCalls: 1,
	}, {
		name: "network without configured registry",
		d:    &entity.Descriptor{Type: entity.Networks, ID: tokenAddr.Hex()},
	}, {
		name: "tokens have no registry",
		d:    &entity.Descriptor{Type: entity.Tokens, ID: tokenAddr.Hex()},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain.calls = nil
			rec := &notifytest.Recorder{}
			v := NewEntityValidator(NewReader(chain, time.Second), rec, failure.Messages{}, chainName, registries)

			err := v.Validate(context.Background(), tt.d)
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
			} else if !failure.Is(err, tt.wantKind) {
				t.Fatalf("Validate() = %v, want %s", err, tt.wantKind)
			}
			if got := len(chain.Calls()); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
			if tt.wantKind != "" {
				comments := rec.Comments()
				if len(comments) != 1 {
					t.Fatalf("got %d comments, want 1", len(comments))
				}
				for _, want := range []string{"Operator", tt.d.ID, chainName, registryAddr.Hex()} {
					if !strings.Contains(comments[0], want) {
						t.Errorf("comment missing %q:\n%s", want, comments[0])
					}
				}
			}
		})
	}
}

func TestCollateralValidator(t *testing.T) {
	tokens := fstest.MapFS{
		"tokens/" + strings.ToLower(tokenAddr.Hex()) + "/info.json": &fstest.MapFile{Data: []byte("{}")},
	}

	tests := []struct {
		name     string
		d        *entity.Descriptor
		chain    *fakeChain
		registry fstest.MapFS
		wantKind failure.Kind
		wantErr  bool
	}{{
		name:     "known collateral matches case-insensitively",
		d:        vaultDescriptor(),
		chain:    &fakeChain{collateral: map[common.Address]common.Address{memberAddr: tokenAddr}},
		registry: tokens,
	}, {
		name:     "unknown collateral",
		d:        vaultDescriptor(),
		chain:    &fakeChain{collateral: map[common.Address]common.Address{memberAddr: otherVault}},
		registry: tokens,
		wantKind: failure.UnknownCollateral,
	}, {
		name:     "no tokens directory",
		d:        vaultDescriptor(),
		chain:    &fakeChain{collateral: map[common.Address]common.Address{memberAddr: tokenAddr}},
		registry: fstest.MapFS{},
		wantKind: failure.UnknownCollateral,
	}, {
		name:     "not a contract",
		d:        vaultDescriptor(),
		chain:    &fakeChain{},
		registry: tokens,
		wantKind: failure.InvalidVault,
	}, {
		name:     "reverted",
		d:        vaultDescriptor(),
		chain:    &fakeChain{errs: map[common.Address]error{memberAddr: revertError{}}},
		registry: tokens,
		wantKind: failure.InvalidVault,
	}, {
		name:     "zero collateral",
		d:        vaultDescriptor(),
		chain:    &fakeChain{collateral: map[common.Address]common.Address{memberAddr: {}}},
		registry: tokens,
		wantKind: failure.InvalidVault,
	}, {
		name:     "transport failure is not a vault failure",
		d:        vaultDescriptor(),
		chain:    &fakeChain{errs: map[common.Address]error{memberAddr: errors.New("dial tcp: refused")}},
		registry: tokens,
		wantErr:  true,
	}, {
		name:     "non-vaults are skipped",
		d:        &entity.Descriptor{Type: entity.Operators, ID: memberAddr.Hex()},
		chain:    &fakeChain{},
		registry: tokens,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &notifytest.Recorder{}
			v := NewCollateralValidator(NewReader(tt.chain, time.Second), rec, failure.Messages{}, chainName, tt.registry)

			err := v.Validate(context.Background(), tt.d)
			switch {
			case tt.wantKind != "":
				if !failure.Is(err, tt.wantKind) {
					t.Fatalf("Validate() = %v, want %s", err, tt.wantKind)
				}
				if rec.Total() != 1 {
					t.Errorf("notifications = %d, want 1", rec.Total())
				}
			case tt.wantErr:
				if err == nil {
					t.Fatal("expected error")
				}
				if _, ok := failure.KindOf(err); ok {
					t.Errorf("Validate() = %v, want a plain error", err)
				}
				if rec.Total() != 0 {
					t.Errorf("notifications = %d, want 0", rec.Total())
				}
			default:
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				if rec.Total() != 0 {
					t.Errorf("notifications = %d, want 0", rec.Total())
				}
			}
		})
	}
}

func rewardsMetadata(rewards string) fstest.MapFS {
	return vaultMetadata(`{"name": "Vault", "description": "d", "rewards": ` + rewards + `}`)
}

func vaultMetadata(body string) fstest.MapFS {
	return fstest.MapFS{
		"vaults/" + memberAddr.Hex() + "/info.json": &fstest.MapFile{Data: []byte(body)},
	}
}

func TestRewardsValidator(t *testing.T) {
	good := `{"address": "` + rewardAddr.Hex() + `", "type": "defaultStakingRewardsV2"}`

	tests := []struct {
		name      string
		factory   string
		fsys      fstest.MapFS
		chain     *fakeChain
		wantKind  failure.Kind
		wantCalls []string
	}{{
		name:    "valid reward",
		factory: factoryAddr.Hex(),
		fsys:    rewardsMetadata("[" + good + "]"),
		chain: &fakeChain{
			members: map[common.Address][]common.Address{factoryAddr: {rewardAddr}},
			vaults:  map[common.Address]common.Address{rewardAddr: memberAddr},
		},
		wantCalls: []string{"isEntity", "VAULT"},
	}, {
		name:      "no factory configured",
		fsys:      rewardsMetadata("[" + good + "]"),
		chain:     &fakeChain{},
		wantCalls: nil,
	}, {
		name:      "no rewards declared",
		factory:   factoryAddr.Hex(),
		fsys:      rewardsMetadata("[]"),
		chain:     &fakeChain{},
		wantCalls: nil,
	}, {
		name:      "undecodable metadata is left to the schema check",
		factory:   factoryAddr.Hex(),
		fsys:      rewardsMetadata("{"),
		chain:     &fakeChain{},
		wantCalls: nil,
	}, {
		name:      "wrong type stops before any read",
		factory:   factoryAddr.Hex(),
		fsys:      rewardsMetadata(`[{"address": "` + rewardAddr.Hex() + `", "type": "customRewards"}, ` + good + `]`),
		chain:     &fakeChain{},
		wantKind:  failure.InvalidRewardsType,
		wantCalls: nil,
	}, {
		name:    "sibling field of the wrong type does not hide rewards",
		factory: factoryAddr.Hex(),
		fsys: vaultMetadata(`{"name": "V", "description": "d", "tags": "lrt", "rewards": ` +
			`[{"address": "` + rewardAddr.Hex() + `", "type": "bogus"}]}`),
		chain:     &fakeChain{},
		wantKind:  failure.InvalidRewardsType,
		wantCalls: nil,
	}, {
		name:    "valid reward beside a sibling field of the wrong type",
		factory: factoryAddr.Hex(),
		fsys:    vaultMetadata(`{"name": "V", "description": "d", "tags": "lrt", "rewards": [` + good + `]}`),
		chain: &fakeChain{
			members: map[common.Address][]common.Address{factoryAddr: {rewardAddr}},
			vaults:  map[common.Address]common.Address{rewardAddr: memberAddr},
		},
		wantCalls: []string{"isEntity", "VAULT"},
	}, {
		name:      "entry that is not an object",
		factory:   factoryAddr.Hex(),
		fsys:      rewardsMetadata(`["` + rewardAddr.Hex() + `"]`),
		chain:     &fakeChain{},
		wantKind:  failure.InvalidRewardsType,
		wantCalls: nil,
	}, {
		name:      "type that is not a string",
		factory:   factoryAddr.Hex(),
		fsys:      rewardsMetadata(`[{"address": "` + rewardAddr.Hex() + `", "type": 2}]`),
		chain:     &fakeChain{},
		wantKind:  failure.InvalidRewardsType,
		wantCalls: nil,
	}, {
		name:    "not deployed by the factory",
		factory: factoryAddr.Hex(),
		fsys:    rewardsMetadata("[" + good + "]"),
		chain: &fakeChain{
			members: map[common.Address][]common.Address{factoryAddr: {}},
		},
		wantKind:  failure.RewardsNotFromFactory,
		wantCalls: []string{"isEntity"},
	}, {
		name:    "bound to another vault",
		factory: factoryAddr.Hex(),
		fsys:    rewardsMetadata("[" + good + "]"),
		chain: &fakeChain{
			members: map[common.Address][]common.Address{factoryAddr: {rewardAddr}},
			vaults:  map[common.Address]common.Address{rewardAddr: otherVault},
		},
		wantKind:  failure.RewardsVaultMismatch,
		wantCalls: []string{"isEntity", "VAULT"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &notifytest.Recorder{}
			v := NewRewardsValidator(NewReader(tt.chain, time.Second), rec, failure.Messages{}, chainName, tt.factory, tt.fsys)

			err := v.Validate(context.Background(), vaultDescriptor())
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
			} else {
				if !failure.Is(err, tt.wantKind) {
					t.Fatalf("Validate() = %v, want %s", err, tt.wantKind)
				}
				if rec.Total() != 1 {
					t.Errorf("notifications = %d, want 1", rec.Total())
				}
			}
			if diff := cmp.Diff(tt.wantCalls, tt.chain.Calls()); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRewardsValidatorMatchesVaultCaseInsensitively(t *testing.T) {
	chain := &fakeChain{
		members: map[common.Address][]common.Address{factoryAddr: {rewardAddr}},
		vaults:  map[common.Address]common.Address{rewardAddr: memberAddr},
	}
	lower := strings.ToLower(memberAddr.Hex())
	fsys := fstest.MapFS{
		"vaults/" + lower + "/info.json": &fstest.MapFile{Data: []byte(
			`{"rewards": [{"address": "` + rewardAddr.Hex() + `", "type": "defaultStakingRewardsV2"}]}`)},
	}
	v := NewRewardsValidator(NewReader(chain, time.Second), &notifytest.Recorder{}, failure.Messages{}, chainName, factoryAddr.Hex(), fsys)

	if err := v.Validate(context.Background(), &entity.Descriptor{Type: entity.Vaults, ID: lower}); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}
