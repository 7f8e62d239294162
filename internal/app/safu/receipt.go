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

// Package safu implements the accounting core of the whitehat escrow ledger:
// deposit receipts, per-asset ledger aggregates, the pro-rata bounty engine
// and the lifecycle controller tying them together.
package safu

import "time"

// ReceiptID identifies one deposit. Ids are assigned monotonically and never
// reused.
type ReceiptID uint64

// Asset names a deposited asset type. The empty string is the null-asset
// sentinel and never appears on a stored receipt.
type Asset string

type ApprovalState int

const (
	StatePending ApprovalState = iota
	StateApproved
)

func (s ApprovalState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateApproved:
		return "approved"
	}
	return "unknown"
}

// Receipt records one deposit and its bounty-claim progress. Everything but
// State and Withdrawn is fixed at deposit time; in particular Bounty is never
// recomputed even if the bounty percent changes later. Denied and settled
// receipts are removed from the store, not flagged.
type Receipt struct {
	ID          ReceiptID
	Depositor   string
	Asset       Asset
	Deposited   uint64
	Bounty      uint64
	Withdrawn   uint64
	DepositedAt time.Time
	State       ApprovalState
}

// Remaining is the unswept part of the deposit. Withdrawn never exceeds
// Deposited.
func (r *Receipt) Remaining() uint64 {
	return r.Deposited - r.Withdrawn
}

// Swept reports whether the authority already recovered the whole deposit
// through the MaxDelay valve. Such receipts yield zero on any later claim.
func (r *Receipt) Swept() bool {
	return r.Withdrawn >= r.Deposited
}
