//
// Copyright 2021 Jump Crypto
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package safu

import "fmt"

// VaultEntry carries the per-asset ledger aggregates.
//
// Approved counts the nominal bounties of approved receipts plus everything
// already claimed; claims reduce it only by their shortfall. That keeps
// Approved >= Claimed at all times, which is the central correctness property
// of the whole core.
type VaultEntry struct {
	Asset     Asset
	BountyCap uint64
	Approved  uint64
	Claimed   uint64
	Settled   uint64
	Receipts  map[ReceiptID]struct{}
}

func newVaultEntry(asset Asset, bountyCap uint64) *VaultEntry {
	return &VaultEntry{
		Asset:     asset,
		BountyCap: bountyCap,
		Receipts:  make(map[ReceiptID]struct{}),
	}
}

// mustBeConsistent asserts the Approved >= Claimed invariant. A violation is
// a bookkeeping bug, not a caller error, so it aborts the operation outright.
func (e *VaultEntry) mustBeConsistent() {
	if e.Approved < e.Claimed {
		panic(fmt.Sprintf(
			"ledger corrupted for asset %q: approved total %d below claimed total %d",
			e.Asset, e.Approved, e.Claimed))
	}
	if e.Claimed > e.BountyCap && e.BountyCap > 0 {
		panic(fmt.Sprintf(
			"ledger corrupted for asset %q: claimed total %d above bounty cap %d",
			e.Asset, e.Claimed, e.BountyCap))
	}
}
