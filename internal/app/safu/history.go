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
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	SettledByClaim  = "claimed"
	SettledByDenial = "denied"
)

// Settlement is the observable trace of a receipt leaving the store. Settled
// receipts are deleted from the indexes, so this tail is the only way to read
// recent outcomes back.
type Settlement struct {
	Receipt   ReceiptID `json:"receiptId"`
	Depositor string    `json:"depositor"`
	Asset     Asset     `json:"asset"`
	Paid      uint64    `json:"paid"`
	Settled   uint64    `json:"settled"`
	Kind      string    `json:"kind"`
	At        time.Time `json:"at"`
}

// History keeps a bounded tail of settlements; the oldest fall off first.
type History struct {
	cache *lru.Cache
}

func NewHistory(size int) (*History, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &History{cache: cache}, nil
}

func (h *History) Push(s Settlement) {
	h.cache.Add(s.Receipt, s)
}

// Recent returns retained settlements, oldest first.
func (h *History) Recent() []Settlement {
	keys := h.cache.Keys()
	tail := make([]Settlement, 0, len(keys))
	for _, key := range keys {
		if value, ok := h.cache.Peek(key); ok {
			tail = append(tail, value.(Settlement))
		}
	}
	return tail
}
