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

import "time"

// Clock is the read-only time source consulted by the controller.
type Clock interface {
	Now() time.Time
}

type DefaultClock struct{}

func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// AssetTransfer moves a quantity of an asset between the ledger's custody and
// a party. A returned error aborts the enclosing operation; the model assumes
// transfers are exact and synchronous.
type AssetTransfer interface {
	Pull(asset Asset, from string, amount uint64) error
	Push(asset Asset, to string, amount uint64) error
}

// AuthorityCheck gates authority-only operations.
type AuthorityCheck interface {
	IsAuthority(caller string) bool
}

// AuthorityFunc adapts a predicate into an AuthorityCheck.
type AuthorityFunc func(caller string) bool

func (f AuthorityFunc) IsAuthority(caller string) bool {
	return f(caller)
}

// SingleAuthority admits exactly one caller.
func SingleAuthority(name string) AuthorityCheck {
	return AuthorityFunc(func(caller string) bool {
		return caller == name
	})
}
