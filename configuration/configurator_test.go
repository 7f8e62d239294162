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

package configuration

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func Test_replacePassword(t *testing.T) {
	const password = "super_secret_password"
	const with = "postgresql://safu:" + password + "@127.0.0.1:5432/safu?sslmode=disable"
	const without = "postgres://postgres@localhost/postgres?sslmode=disable"

	t.Run("replaced", func(t *testing.T) {
		require.Contains(t, with, password)
		require.NotContains(t, replacePassword(with), password)
	})

	t.Run("not_replaced", func(t *testing.T) {
		require.NotContains(t, without, password)
		require.NotContains(t, replacePassword(without), password)
		require.Equal(t, without, replacePassword(without))
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotEmpty(t, cfg.API.Addr)
	require.NotEmpty(t, cfg.DB.URL)
	require.True(t, cfg.DB.Attempts > 0)
	// a fresh deployment must not reject claims or auto-approve bounties
	require.True(t, cfg.Safu.RewardsClaimable)
	require.False(t, cfg.Safu.AutoApprove)
	require.True(t, cfg.Safu.MaxDelay > cfg.Safu.MinDelay)
	require.True(t, cfg.Safu.BountyPercent <= 100)
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	log := logrus.New()
	// no safu.yaml in the package directory
	cfg := Load(log)
	require.Equal(t, Default(), cfg)
}
