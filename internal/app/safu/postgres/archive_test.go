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
	"time"

	"github.com/go-pg/pg"
	"github.com/go-pg/pg/orm"
	"github.com/stretchr/testify/require"

	"github.com/JumpCrypto/Safu/internal/app/safu"
	"github.com/JumpCrypto/Safu/observability"
)

func TestArchive_Restore(t *testing.T) {
	obs := observability.Make()

	t.Run("empty_database", func(t *testing.T) {
		db := succeedingDB(obs.Log())
		db.queryOne = func(model, query interface{}, params ...interface{}) (orm.Result, error) {
			// the flag row does not exist yet
			return nil, pg.ErrNoRows
		}
		archive := NewArchive(testDBConfig(), obs, db)

		receipts, entries, disabled, err := archive.Restore()
		require.NoError(t, err)
		require.Empty(t, receipts)
		require.Empty(t, entries)
		require.False(t, disabled)
	})

	t.Run("failure", func(t *testing.T) {
		db := failingDB(obs.Log(), errors.New("connection refused"))
		archive := NewArchive(testDBConfig(), obs, db)

		_, _, _, err := archive.Restore()
		require.Error(t, err)
	})
}

func TestArchive_WriteThrough(t *testing.T) {
	obs := observability.Make()
	db := succeedingDB(obs.Log())
	archive := NewArchive(testDBConfig(), obs, db)

	require.NoError(t, archive.SaveReceipt(&safu.Receipt{ID: 1, DepositedAt: time.Unix(0, 0)}))
	require.NoError(t, archive.DeleteReceipt(1))
	require.NoError(t, archive.SaveEntry(&safu.VaultEntry{Asset: "wbtc"}))
	require.NoError(t, archive.SaveFlag(depositsDisabledFlag, true))
	require.NoError(t, archive.LogOperation(safu.Operation{Kind: "deposit", At: time.Unix(0, 0)}))
}
