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
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JumpCrypto/Safu/internal/pkg/cycle"
)

type Configuration struct {
	API  API
	DB   DB
	Log  Log
	Safu Safu
}

type API struct {
	Addr string
}

type DB struct {
	URL      string
	Attempts cycle.Limit
	// Interval between failed db attempts
	AttemptInterval time.Duration
	CreateTables    bool
}

type Log struct {
	Level  string
	Format string
}

// Safu carries the escrow behavior toggles. The historical contract variants
// (auto approval, claim gate, denial window, default cap) are unified here as
// configuration.
type Safu struct {
	// Authority is the only caller admitted to approve/deny/withdraw.
	Authority        string
	BountyPercent    uint64
	DefaultBountyCap uint64
	// MinDelay gates the earliest claim, MaxDelay the latest guaranteed
	// authority recovery.
	MinDelay time.Duration
	MaxDelay time.Duration
	// DenialWindow of zero disables the window entirely.
	DenialWindow     time.Duration
	AutoApprove      bool
	RewardsClaimable bool
	HistorySize      int
}

func Default() *Configuration {
	return &Configuration{
		API: API{
			Addr: ":8080",
		},
		DB: DB{
			URL:             "postgres://postgres@localhost/postgres?sslmode=disable",
			Attempts:        5,
			AttemptInterval: 3 * time.Second,
			CreateTables:    false,
		},
		Log: Log{
			Level:  logrus.DebugLevel.String(),
			Format: "text",
		},
		Safu: Safu{
			Authority:        "authority",
			BountyPercent:    10,
			DefaultBountyCap: 0,
			MinDelay:         24 * time.Hour,
			MaxDelay:         720 * time.Hour,
			DenialWindow:     0,
			AutoApprove:      false,
			RewardsClaimable: true,
			HistorySize:      1024,
		},
	}
}
