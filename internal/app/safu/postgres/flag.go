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
	"github.com/go-pg/pg"
	"github.com/go-pg/pg/orm"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/JumpCrypto/Safu/observability"
)

// One-way latches (deposits_disabled) survive restarts through this table.
type FlagSchema struct {
	tableName struct{} `sql:"flags"`

	Name  string `sql:",pk"`
	Value bool   `sql:",notnull"`
}

type FlagStorage struct {
	log *logrus.Logger
	db  orm.DB
}

func NewFlagStorage(obs *observability.Observability, db orm.DB) *FlagStorage {
	return &FlagStorage{
		log: obs.Log(),
		db:  db,
	}
}

func (s *FlagStorage) Upsert(name string, value bool) error {
	row := &FlagSchema{Name: name, Value: value}
	_, err := s.db.Model(row).
		OnConflict("(name) DO UPDATE").
		Insert()
	if err != nil {
		return errors.Wrapf(err, "failed to upsert flag %s", name)
	}
	return nil
}

func (s *FlagStorage) Get(name string) (bool, error) {
	row := &FlagSchema{}
	err := s.db.Model(row).Where("name=?", name).Select()
	if err == pg.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to select flag %s", name)
	}
	return row.Value, nil
}
