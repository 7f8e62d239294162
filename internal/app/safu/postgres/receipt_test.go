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

	"github.com/stretchr/testify/require"

	"github.com/JumpCrypto/Safu/configuration"
	"github.com/JumpCrypto/Safu/internal/app/safu"
	"github.com/JumpCrypto/Safu/observability"
)

func testDBConfig() *configuration.Configuration {
	cfg := configuration.Default()
	cfg.DB.Attempts = 1
	cfg.DB.AttemptInterval = time.Millisecond
	return cfg
}

func Test_receiptSchema(t *testing.T) {
	model := &safu.Receipt{
		ID:          7,
		Depositor:   "alice",
		Asset:       "wbtc",
		Deposited:   1000,
		Bounty:      500,
		Withdrawn:   100,
		DepositedAt: time.Unix(1600000000, 0),
		State:       safu.StateApproved,
	}

	row := receiptSchema(model)
	require.Equal(t, "approved", row.State)
	require.Equal(t, int64(1600000000), row.DepositedAt)

	restored := receiptModel(row)
	require.Equal(t, model.ID, restored.ID)
	require.Equal(t, model.Depositor, restored.Depositor)
	require.Equal(t, model.Asset, restored.Asset)
	require.Equal(t, model.Deposited, restored.Deposited)
	require.Equal(t, model.Bounty, restored.Bounty)
	require.Equal(t, model.Withdrawn, restored.Withdrawn)
	require.Equal(t, model.State, restored.State)
	require.True(t, model.DepositedAt.Equal(restored.DepositedAt))

	t.Run("unknown_state_is_pending", func(t *testing.T) {
		row := receiptSchema(model)
		row.State = "garbage"
		require.Equal(t, safu.StatePending, receiptModel(row).State)
	})
}

func TestReceiptStorage_Upsert(t *testing.T) {
	obs := observability.Make()

	t.Run("nil", func(t *testing.T) {
		storage := NewReceiptStorage(testDBConfig(), obs, &dbMock{})
		require.NoError(t, storage.Upsert(nil))
	})

	t.Run("success", func(t *testing.T) {
		db := succeedingDB(obs.Log())
		storage := NewReceiptStorage(testDBConfig(), obs, db)
		require.NoError(t, storage.Upsert(&safu.Receipt{ID: 1, DepositedAt: time.Unix(0, 0)}))
	})

	t.Run("failure", func(t *testing.T) {
		db := failingDB(obs.Log(), errors.New("connection refused"))
		storage := NewReceiptStorage(testDBConfig(), obs, db)
		require.Error(t, storage.Upsert(&safu.Receipt{ID: 1, DepositedAt: time.Unix(0, 0)}))
	})
}

func TestReceiptStorage_Delete(t *testing.T) {
	obs := observability.Make()

	t.Run("success", func(t *testing.T) {
		db := succeedingDB(obs.Log())
		storage := NewReceiptStorage(testDBConfig(), obs, db)
		require.NoError(t, storage.Delete(1))
	})

	t.Run("failure", func(t *testing.T) {
		db := failingDB(obs.Log(), errors.New("connection refused"))
		storage := NewReceiptStorage(testDBConfig(), obs, db)
		require.Error(t, storage.Delete(1))
	})
}

func TestReceiptStorage_Active(t *testing.T) {
	obs := observability.Make()

	t.Run("empty", func(t *testing.T) {
		db := succeedingDB(obs.Log())
		storage := NewReceiptStorage(testDBConfig(), obs, db)

		models, err := storage.Active()
		require.NoError(t, err)
		require.Empty(t, models)
	})

	t.Run("failure", func(t *testing.T) {
		db := failingDB(obs.Log(), errors.New("connection refused"))
		storage := NewReceiptStorage(testDBConfig(), obs, db)

		_, err := storage.Active()
		require.Error(t, err)
	})
}
