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
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/JumpCrypto/Safu/internal/app/safu"
	"github.com/JumpCrypto/Safu/observability"
)

// OperationSchema is the append-only audit journal of ledger operations.
type OperationSchema struct {
	tableName struct{} `sql:"operations"`

	Ref        string `sql:",pk"`
	Kind       string `sql:",notnull"`
	Caller     string `sql:",notnull"`
	Asset      string
	ReceiptID  uint64
	Amount     uint64
	OccurredAt int64 `sql:",notnull"`
}

type OperationStorage struct {
	log *logrus.Logger
	db  orm.DB
}

func NewOperationStorage(obs *observability.Observability, db orm.DB) *OperationStorage {
	return &OperationStorage{
		log: obs.Log(),
		db:  db,
	}
}

func (s *OperationStorage) Insert(op safu.Operation) error {
	row := &OperationSchema{
		Ref:        uuid.New().String(),
		Kind:       op.Kind,
		Caller:     op.Caller,
		Asset:      string(op.Asset),
		ReceiptID:  uint64(op.Receipt),
		Amount:     op.Amount,
		OccurredAt: op.At.Unix(),
	}
	_, err := s.db.Model(row).Insert()
	if err != nil {
		return errors.Wrapf(err, "failed to insert operation %s", row.Kind)
	}
	return nil
}
