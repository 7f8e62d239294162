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

import "sort"

// Store owns the outstanding receipts: an arena keyed by id with secondary
// indexes by depositor and by asset (true sets, O(1) removal), plus an
// insertion-ordered registry of every asset ever deposited. The store is not
// safe for concurrent use; the Vault serializes access.
type Store struct {
	lastID      ReceiptID
	receipts    map[ReceiptID]*Receipt
	byDepositor map[string]map[ReceiptID]struct{}
	entries     map[Asset]*VaultEntry
	registry    []Asset
}

func NewStore() *Store {
	return &Store{
		receipts:    make(map[ReceiptID]*Receipt),
		byDepositor: make(map[string]map[ReceiptID]struct{}),
		entries:     make(map[Asset]*VaultEntry),
	}
}

// Allocate hands out the next receipt id.
func (s *Store) Allocate() ReceiptID {
	s.lastID++
	return s.lastID
}

func (s *Store) Get(id ReceiptID) *Receipt {
	return s.receipts[id]
}

// Add registers a receipt in all three indexes. The asset entry must already
// exist.
func (s *Store) Add(r *Receipt) {
	s.receipts[r.ID] = r
	owned, ok := s.byDepositor[r.Depositor]
	if !ok {
		owned = make(map[ReceiptID]struct{})
		s.byDepositor[r.Depositor] = owned
	}
	owned[r.ID] = struct{}{}
	s.entries[r.Asset].Receipts[r.ID] = struct{}{}
}

// Remove deletes a receipt from all three indexes. Partial deletion is a bug,
// so everything happens here or not at all.
func (s *Store) Remove(id ReceiptID) {
	r, ok := s.receipts[id]
	if !ok {
		return
	}
	delete(s.receipts, id)
	if owned, ok := s.byDepositor[r.Depositor]; ok {
		delete(owned, id)
		if len(owned) == 0 {
			delete(s.byDepositor, r.Depositor)
		}
	}
	if entry, ok := s.entries[r.Asset]; ok {
		delete(entry.Receipts, id)
	}
}

// DepositorReceipts returns the caller's receipt ids in ascending order, as a
// copy safe to mutate the store under.
func (s *Store) DepositorReceipts(depositor string) []ReceiptID {
	owned := s.byDepositor[depositor]
	ids := make([]ReceiptID, 0, len(owned))
	for id := range owned {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AssetReceipts returns the asset's active receipt ids in ascending order.
func (s *Store) AssetReceipts(asset Asset) []ReceiptID {
	entry, ok := s.entries[asset]
	if !ok {
		return nil
	}
	ids := make([]ReceiptID, 0, len(entry.Receipts))
	for id := range entry.Receipts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) Entry(asset Asset) *VaultEntry {
	return s.entries[asset]
}

// EnsureEntry returns the asset's ledger entry, creating and registering it
// on first sight.
func (s *Store) EnsureEntry(asset Asset, defaultCap uint64) *VaultEntry {
	entry, ok := s.entries[asset]
	if !ok {
		entry = newVaultEntry(asset, defaultCap)
		s.entries[asset] = entry
		s.registry = append(s.registry, asset)
	}
	return entry
}

// Assets lists every asset ever seen, in registration order.
func (s *Store) Assets() []Asset {
	assets := make([]Asset, len(s.registry))
	copy(assets, s.registry)
	return assets
}

// SeedEntry installs a restored ledger entry.
func (s *Store) SeedEntry(e *VaultEntry) {
	if e.Receipts == nil {
		e.Receipts = make(map[ReceiptID]struct{})
	}
	if _, ok := s.entries[e.Asset]; !ok {
		s.registry = append(s.registry, e.Asset)
	}
	s.entries[e.Asset] = e
}

// SeedReceipt installs a restored receipt and keeps id allocation ahead of
// everything restored.
func (s *Store) SeedReceipt(r *Receipt) {
	s.EnsureEntry(r.Asset, 0)
	s.Add(r)
	if r.ID > s.lastID {
		s.lastID = r.ID
	}
}
