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

import (
	"fmt"
	"math/big"
)

// Share computes the bounty currently claimable for a receipt given its
// asset's aggregates. Pure, no side effects.
//
// While the cap is zero no bounty budget exists for the asset, even though
// approval bookkeeping still happens. Under the cap the full nominal bounty
// is claimable. Once approvals oversubscribe the cap, every still-unclaimed
// receipt gets the same fraction of its nominal bounty:
//
//	share = bounty * (cap - claimed) / (approved - claimed)
//
// The ratio depends only on asset-wide aggregates, never on claim order, so
// claimants receive the same percentage no matter who claims first. Division
// truncates toward zero; the rounding dust ends up in the settled pool.
func Share(r *Receipt, e *VaultEntry) (uint64, bool) {
	approved := r.State == StateApproved

	if e.BountyCap == 0 {
		return 0, approved
	}
	if e.Approved <= e.BountyCap {
		return r.Bounty, approved
	}

	// Oversubscribed. Approved >= Claimed and Claimed <= BountyCap < Approved
	// guarantee a positive pool; anything else is corrupted bookkeeping.
	if e.Claimed >= e.Approved || e.Claimed > e.BountyCap {
		panic(fmt.Sprintf(
			"ledger corrupted for asset %q: cap %d, approved %d, claimed %d",
			e.Asset, e.BountyCap, e.Approved, e.Claimed))
	}
	remainingCap := e.BountyCap - e.Claimed
	remainingPool := e.Approved - e.Claimed

	return mulDiv(r.Bounty, remainingCap, remainingPool), approved
}

// mulDiv returns a*b/c with truncation, using a wide intermediate so the
// product cannot overflow.
func mulDiv(a, b, c uint64) uint64 {
	result := new(big.Int).SetUint64(a)
	result.Mul(result, new(big.Int).SetUint64(b))
	result.Div(result, new(big.Int).SetUint64(c))
	return result.Uint64()
}
