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
	"time"

	"github.com/go-pg/pg/orm"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/JumpCrypto/Safu/configuration"
	"github.com/JumpCrypto/Safu/internal/app/safu"
	"github.com/JumpCrypto/Safu/internal/pkg/cycle"
	"github.com/JumpCrypto/Safu/observability"
)

type ReceiptSchema struct {
	tableName struct{} `sql:"receipts"`

	ReceiptID   uint64 `sql:"receipt_id,pk"`
	Depositor   string `sql:",notnull"`
	Asset       string `sql:",notnull"`
	Deposited   uint64 `sql:",notnull"`
	Bounty      uint64 `sql:",notnull"`
	Withdrawn   uint64 `sql:",notnull"`
	DepositedAt int64  `sql:",notnull"`
	State       string `sql:",notnull"`
}

type ReceiptStorage struct {
	cfg          *configuration.Configuration
	log          *logrus.Logger
	errorCounter prometheus.Counter
	db           orm.DB
}

func NewReceiptStorage(cfg *configuration.Configuration, obs *observability.Observability, db orm.DB) *ReceiptStorage {
	errorCounter := obs.Counter(prometheus.CounterOpts{
		Name: "safu_receipt_storage_error_counter",
		Help: "",
	})
	return &ReceiptStorage{
		cfg:          cfg,
		log:          obs.Log(),
		errorCounter: errorCounter,
		db:           db,
	}
}

func (s *ReceiptStorage) Upsert(model *safu.Receipt) error {
	if model == nil {
		s.log.Warnf("trying to upsert nil receipt model")
		return nil
	}
	row := receiptSchema(model)
	_, err := s.db.Model(row).
		OnConflict("(receipt_id) DO UPDATE").
		Insert()
	if err != nil {
		s.errorCounter.Inc()
		return errors.Wrapf(err, "failed to upsert receipt %v", row)
	}
	return nil
}

func (s *ReceiptStorage) Delete(id safu.ReceiptID) error {
	_, err := s.db.Model(&ReceiptSchema{}).
		Where("receipt_id=?", uint64(id)).
		Delete()
	if err != nil {
		s.errorCounter.Inc()
		return errors.Wrapf(err, "failed to delete receipt %d", id)
	}
	return nil
}

// Active loads every outstanding receipt, retrying transient failures per the
// DB config.
func (s *ReceiptStorage) Active() ([]*safu.Receipt, error) {
	var rows []ReceiptSchema
	err := cycle.UntilError(func() error {
		rows = nil
		return s.db.Model(&rows).Order("receipt_id ASC").Select()
	}, s.cfg.DB.AttemptInterval, s.cfg.DB.Attempts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select receipts")
	}

	models := make([]*safu.Receipt, 0, len(rows))
	for i := range rows {
		models = append(models, receiptModel(&rows[i]))
	}
	return models, nil
}

func receiptSchema(model *safu.Receipt) *ReceiptSchema {
	return &ReceiptSchema{
		ReceiptID:   uint64(model.ID),
		Depositor:   model.Depositor,
		Asset:       string(model.Asset),
		Deposited:   model.Deposited,
		Bounty:      model.Bounty,
		Withdrawn:   model.Withdrawn,
		DepositedAt: model.DepositedAt.Unix(),
		State:       model.State.String(),
	}
}

func receiptModel(row *ReceiptSchema) *safu.Receipt {
	state := safu.StatePending
	if row.State == safu.StateApproved.String() {
		state = safu.StateApproved
	}
	return &safu.Receipt{
		ID:          safu.ReceiptID(row.ReceiptID),
		Depositor:   row.Depositor,
		Asset:       safu.Asset(row.Asset),
		Deposited:   row.Deposited,
		Bounty:      row.Bounty,
		Withdrawn:   row.Withdrawn,
		DepositedAt: time.Unix(row.DepositedAt, 0),
		State:       state,
	}
}
