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

package safu

import (
	"sync"

	"github.com/pkg/errors"
)

// BalanceBook is an in-process AssetTransfer keeping per-party balances and
// the ledger's custody per asset. It is the reference collaborator used by
// the daemon's default wiring and by tests; a production deployment replaces
// it with the real transfer mechanism.
type BalanceBook struct {
	mu       sync.Mutex
	balances map[Asset]map[string]uint64
	custody  map[Asset]uint64
}

func NewBalanceBook() *BalanceBook {
	return &BalanceBook{
		balances: make(map[Asset]map[string]uint64),
		custody:  make(map[Asset]uint64),
	}
}

// Mint credits a party out of thin air. Test and bootstrap helper.
func (b *BalanceBook) Mint(asset Asset, party string, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.credit(asset, party, amount)
}

func (b *BalanceBook) Balance(asset Asset, party string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[asset][party]
}

// Custody is the total amount of an asset currently held by the ledger.
func (b *BalanceBook) Custody(asset Asset) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.custody[asset]
}

func (b *BalanceBook) Pull(asset Asset, from string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	balance := b.balances[asset][from]
	if balance < amount {
		return errors.Errorf("insufficient %s balance of %s: have %d, need %d",
			asset, from, balance, amount)
	}
	b.balances[asset][from] = balance - amount
	b.custody[asset] += amount
	return nil
}

func (b *BalanceBook) Push(asset Asset, to string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	held := b.custody[asset]
	if held < amount {
		return errors.Errorf("insufficient %s custody: have %d, need %d",
			asset, held, amount)
	}
	b.custody[asset] = held - amount
	b.credit(asset, to, amount)
	return nil
}

func (b *BalanceBook) credit(asset Asset, party string, amount uint64) {
	book, ok := b.balances[asset]
	if !ok {
		book = make(map[string]uint64)
		b.balances[asset] = book
	}
	book[party] += amount
}
