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

import "github.com/pkg/errors"

// Operation failures surfaced to callers. Wrapped with pkg/errors on the way
// out, so callers compare through errors.Cause.
var (
	ErrUnauthorized     = errors.New("caller is not the authority")
	ErrNotFound         = errors.New("receipt not found")
	ErrInvalidState     = errors.New("operation is illegal for the receipt state")
	ErrZeroAmount       = errors.New("zero amount")
	ErrDepositsDisabled = errors.New("deposits are disabled")
	ErrOverflow         = errors.New("amount out of bounds")
)
