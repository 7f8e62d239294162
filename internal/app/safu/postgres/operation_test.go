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

	"github.com/JumpCrypto/Safu/internal/app/safu"
	"github.com/JumpCrypto/Safu/observability"
)

func TestOperationStorage_Insert(t *testing.T) {
	obs := observability.Make()
	op := safu.Operation{
		Kind:    "deposit",
		Caller:  "alice",
		Asset:   "wbtc",
		Receipt: 1,
		Amount:  1000,
		At:      time.Unix(1600000000, 0),
	}

	t.Run("success", func(t *testing.T) {
		db := succeedingDB(obs.Log())
		storage := NewOperationStorage(obs, db)
		require.NoError(t, storage.Insert(op))
	})

	t.Run("failure", func(t *testing.T) {
		db := failingDB(obs.Log(), errors.New("connection refused"))
		storage := NewOperationStorage(obs, db)
		require.Error(t, storage.Insert(op))
	})
}
