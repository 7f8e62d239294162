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
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/JumpCrypto/Safu/configuration"
	"github.com/JumpCrypto/Safu/internal/app/safu"
	"github.com/JumpCrypto/Safu/internal/pkg/cycle"
	"github.com/JumpCrypto/Safu/observability"
)

type LedgerSchema struct {
	tableName struct{} `sql:"ledgers"`

	Asset     string `sql:",pk"`
	BountyCap uint64 `sql:",notnull"`
	Approved  uint64 `sql:",notnull"`
	Claimed   uint64 `sql:",notnull"`
	Settled   uint64 `sql:",notnull"`
}

type LedgerStorage struct {
	cfg          *configuration.Configuration
	log          *logrus.Logger
	errorCounter prometheus.Counter
	db           orm.DB
}

func NewLedgerStorage(cfg *configuration.Configuration, obs *observability.Observability, db orm.DB) *LedgerStorage {
	errorCounter := obs.Counter(prometheus.CounterOpts{
		Name: "safu_ledger_storage_error_counter",
		Help: "",
	})
	return &LedgerStorage{
		cfg:          cfg,
		log:          obs.Log(),
		errorCounter: errorCounter,
		db:           db,
	}
}

func (s *LedgerStorage) Upsert(model *safu.VaultEntry) error {
	if model == nil {
		s.log.Warnf("trying to upsert nil ledger model")
		return nil
	}
	row := ledgerSchema(model)
	_, err := s.db.Model(row).
		OnConflict("(asset) DO UPDATE").
		Insert()
	if err != nil {
		s.errorCounter.Inc()
		return errors.Wrapf(err, "failed to upsert ledger entry %v", row)
	}
	return nil
}

// All loads every per-asset entry, ordered by asset for a deterministic
// registry after restart.
func (s *LedgerStorage) All() ([]*safu.VaultEntry, error) {
	var rows []LedgerSchema
	err := cycle.UntilError(func() error {
		rows = nil
		return s.db.Model(&rows).Order("asset ASC").Select()
	}, s.cfg.DB.AttemptInterval, s.cfg.DB.Attempts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select ledger entries")
	}

	models := make([]*safu.VaultEntry, 0, len(rows))
	for i := range rows {
		models = append(models, ledgerModel(&rows[i]))
	}
	return models, nil
}

func ledgerSchema(model *safu.VaultEntry) *LedgerSchema {
	return &LedgerSchema{
		Asset:     string(model.Asset),
		BountyCap: model.BountyCap,
		Approved:  model.Approved,
		Claimed:   model.Claimed,
		Settled:   model.Settled,
	}
}

func ledgerModel(row *LedgerSchema) *safu.VaultEntry {
	return &safu.VaultEntry{
		Asset:     safu.Asset(row.Asset),
		BountyCap: row.BountyCap,
		Approved:  row.Approved,
		Claimed:   row.Claimed,
		Settled:   row.Settled,
		Receipts:  make(map[safu.ReceiptID]struct{}),
	}
}
