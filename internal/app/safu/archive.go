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

import "time"

// Operation is one journal line of the audit trail.
type Operation struct {
	Kind    string
	Caller  string
	Asset   Asset
	Receipt ReceiptID
	Amount  uint64
	At      time.Time
}

// Archive mirrors ledger state into durable storage. The in-memory store
// stays authoritative during operation; archive failures are logged and
// counted by the Vault, never propagated, since a completed ledger mutation
// must not be half-aborted by its mirror.
type Archive interface {
	SaveReceipt(r *Receipt) error
	DeleteReceipt(id ReceiptID) error
	SaveEntry(e *VaultEntry) error
	SaveFlag(name string, value bool) error
	LogOperation(op Operation) error
}

// NopArchive discards everything. Used when running without a database.
type NopArchive struct{}

func (NopArchive) SaveReceipt(*Receipt) error    { return nil }
func (NopArchive) DeleteReceipt(ReceiptID) error { return nil }
func (NopArchive) SaveEntry(*VaultEntry) error   { return nil }
func (NopArchive) SaveFlag(string, bool) error   { return nil }
func (NopArchive) LogOperation(Operation) error  { return nil }
