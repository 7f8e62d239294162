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

package api

import "github.com/JumpCrypto/Safu/internal/app/safu"

type ErrorMessage struct {
	Error []string `json:"error"`
}

func NewSingleMessageError(message string) ErrorMessage {
	return ErrorMessage{Error: []string{message}}
}

type DepositRequest struct {
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

type DepositResponse struct {
	ReceiptID uint64 `json:"receiptId"`
}

type ClaimResponse struct {
	Paid map[safu.Asset]uint64 `json:"paid"`
}

type WithdrawRequest struct {
	Asset string `json:"asset,omitempty"`
}

type WithdrawResponse struct {
	Withdrawn map[safu.Asset]uint64 `json:"withdrawn"`
}

type BountyResponse struct {
	Amount   uint64 `json:"amount"`
	Approved bool   `json:"approved"`
}

type RaiseCapRequest struct {
	Delta uint64 `json:"delta"`
}

type RaiseCapResponse struct {
	Cap uint64 `json:"cap"`
}
