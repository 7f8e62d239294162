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
	"errors"
	"testing"

	"github.com/go-pg/pg"
	"github.com/go-pg/pg/orm"
	"github.com/stretchr/testify/require"

	"github.com/JumpCrypto/Safu/observability"
)

func TestFlagStorage_Upsert(t *testing.T) {
	obs := observability.Make()

	t.Run("success", func(t *testing.T) {
		db := succeedingDB(obs.Log())
		storage := NewFlagStorage(obs, db)
		require.NoError(t, storage.Upsert(depositsDisabledFlag, true))
	})

	t.Run("failure", func(t *testing.T) {
		db := failingDB(obs.Log(), errors.New("connection refused"))
		storage := NewFlagStorage(obs, db)
		require.Error(t, storage.Upsert(depositsDisabledFlag, true))
	})
}

func TestFlagStorage_Get(t *testing.T) {
	obs := observability.Make()

	t.Run("unset_flag_is_false", func(t *testing.T) {
		db := succeedingDB(obs.Log())
		db.queryOne = func(model, query interface{}, params ...interface{}) (orm.Result, error) {
			return nil, pg.ErrNoRows
		}
		storage := NewFlagStorage(obs, db)

		value, err := storage.Get(depositsDisabledFlag)
		require.NoError(t, err)
		require.False(t, value)
	})

	t.Run("failure", func(t *testing.T) {
		db := failingDB(obs.Log(), errors.New("connection refused"))
		storage := NewFlagStorage(obs, db)

		_, err := storage.Get(depositsDisabledFlag)
		require.Error(t, err)
	})
}
