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

package cycle

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestUntilError(t *testing.T) {
	t.Run("immediate_success", func(t *testing.T) {
		calls := 0
		err := UntilError(func() error {
			calls++
			return nil
		}, 0, 3)
		require.NoError(t, err)
		require.Equal(t, 1, calls)
	})

	t.Run("recovers", func(t *testing.T) {
		calls := 0
		err := UntilError(func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, 0, 5)
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("exhausted", func(t *testing.T) {
		calls := 0
		err := UntilError(func() error {
			calls++
			return errors.New("permanent")
		}, 0, 3)
		require.Error(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("non_positive_attempts_try_once", func(t *testing.T) {
		calls := 0
		err := UntilError(func() error {
			calls++
			return errors.New("still broken")
		}, 0, 0)
		require.Error(t, err)
		require.Equal(t, 1, calls)
	})
}
