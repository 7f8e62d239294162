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

package postgres

import (
	"github.com/go-pg/pg/orm"

	"github.com/JumpCrypto/Safu/configuration"
	"github.com/JumpCrypto/Safu/internal/app/safu"
	"github.com/JumpCrypto/Safu/observability"
)

const depositsDisabledFlag = "deposits_disabled"

// Archive is the durable write-through mirror of the vault, backed by the
// receipt, ledger, flag and operation storages. It implements safu.Archive.
type Archive struct {
	receipts   *ReceiptStorage
	ledgers    *LedgerStorage
	flags      *FlagStorage
	operations *OperationStorage
}

func NewArchive(cfg *configuration.Configuration, obs *observability.Observability, db orm.DB) *Archive {
	return &Archive{
		receipts:   NewReceiptStorage(cfg, obs, db),
		ledgers:    NewLedgerStorage(cfg, obs, db),
		flags:      NewFlagStorage(obs, db),
		operations: NewOperationStorage(obs, db),
	}
}

func (a *Archive) SaveReceipt(r *safu.Receipt) error {
	return a.receipts.Upsert(r)
}

func (a *Archive) DeleteReceipt(id safu.ReceiptID) error {
	return a.receipts.Delete(id)
}

func (a *Archive) SaveEntry(e *safu.VaultEntry) error {
	return a.ledgers.Upsert(e)
}

func (a *Archive) SaveFlag(name string, value bool) error {
	return a.flags.Upsert(name, value)
}

func (a *Archive) LogOperation(op safu.Operation) error {
	return a.operations.Insert(op)
}

// Restore loads everything needed to rebuild the in-memory state after a
// restart.
func (a *Archive) Restore() ([]*safu.Receipt, []*safu.VaultEntry, bool, error) {
	entries, err := a.ledgers.All()
	if err != nil {
		return nil, nil, false, err
	}
	receipts, err := a.receipts.Active()
	if err != nil {
		return nil, nil, false, err
	}
	disabled, err := a.flags.Get(depositsDisabledFlag)
	if err != nil {
		return nil, nil, false, err
	}
	return receipts, entries, disabled, nil
}
