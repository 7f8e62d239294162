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

package component

import (
	"github.com/go-pg/pg/orm"
	"github.com/pkg/errors"

	"github.com/JumpCrypto/Safu/configuration"
	"github.com/JumpCrypto/Safu/connectivity"
	"github.com/JumpCrypto/Safu/internal/app/api"
	"github.com/JumpCrypto/Safu/internal/app/safu"
	"github.com/JumpCrypto/Safu/internal/app/safu/postgres"
	"github.com/JumpCrypto/Safu/observability"
)

type Manager struct {
	cfg    *configuration.Configuration
	obs    *observability.Observability
	vault  *safu.Vault
	router *Router
}

// Prepare loads configuration, connects the archive and rebuilds the vault
// state from it. Panics when the database is unusable: serving an empty
// ledger over existing custody would be worse than not starting.
func Prepare() *Manager {
	obs := observability.Make()
	cfg := configuration.Load(obs.Log())
	obs.ConfigureLog(cfg.Log.Level, cfg.Log.Format)

	conn := connectivity.Make(cfg, obs)
	createTables(cfg, obs, conn)
	archive := postgres.NewArchive(cfg, obs, conn.PG())

	book := safu.NewBalanceBook()
	vault := safu.NewVault(
		vaultConfig(cfg.Safu),
		obs,
		&safu.DefaultClock{},
		book,
		safu.SingleAuthority(cfg.Safu.Authority),
		archive,
	)
	receipts, entries, disabled, err := archive.Restore()
	if err != nil {
		panic(errors.Wrap(err, "failed to restore ledger state from db"))
	}
	vault.Restore(receipts, entries, disabled)
	obs.Log().Infof("restored %d receipts over %d assets", len(receipts), len(entries))

	server := api.NewSafuServer(vault, obs.Log())
	return &Manager{
		cfg:    cfg,
		obs:    obs,
		vault:  vault,
		router: NewRouter(cfg, obs, server),
	}
}

func (m *Manager) Start() {
	m.router.Start()
}

func (m *Manager) Stop() {
	m.router.Stop()
}

func vaultConfig(cfg configuration.Safu) safu.Config {
	return safu.Config{
		BountyPercent:    cfg.BountyPercent,
		DefaultBountyCap: cfg.DefaultBountyCap,
		MinDelay:         cfg.MinDelay,
		MaxDelay:         cfg.MaxDelay,
		DenialWindow:     cfg.DenialWindow,
		AutoApprove:      cfg.AutoApprove,
		RewardsClaimable: cfg.RewardsClaimable,
		HistorySize:      cfg.HistorySize,
	}
}

func createTables(cfg *configuration.Configuration, obs *observability.Observability, conn *connectivity.Connectivity) {
	log := obs.Log()
	if !cfg.DB.CreateTables {
		return
	}
	db := conn.PG()
	schemas := []interface{}{
		&postgres.ReceiptSchema{},
		&postgres.LedgerSchema{},
		&postgres.FlagSchema{},
		&postgres.OperationSchema{},
	}
	for _, schema := range schemas {
		err := db.CreateTable(schema, &orm.CreateTableOptions{IfNotExists: true})
		if err != nil {
			log.Error(errors.Wrapf(err, "failed to create table for %T", schema))
		}
	}
}
