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

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestObservability_Counter(t *testing.T) {
	obs := Make()
	opts := prometheus.CounterOpts{Name: "test_counter", Help: ""}

	first := obs.Counter(opts)
	second := obs.Counter(opts)
	// registered once, same collector handed back
	require.True(t, first == second)

	first.Inc()
	families, err := obs.Metrics().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	require.Equal(t, "test_counter", families[0].GetName())
	require.Equal(t, float64(1), families[0].GetMetric()[0].GetCounter().GetValue())
}

func TestObservability_Gauge(t *testing.T) {
	obs := Make()
	opts := prometheus.GaugeOpts{Name: "test_gauge", Help: ""}

	require.True(t, obs.Gauge(opts) == obs.Gauge(opts))
}

func TestObservability_ConfigureLog(t *testing.T) {
	obs := Make()

	obs.ConfigureLog("warn", "json")
	require.Equal(t, logrus.WarnLevel, obs.Log().Level)
	require.IsType(t, &logrus.JSONFormatter{}, obs.Log().Formatter)

	// garbage level keeps the previous one
	obs.ConfigureLog("garbage", "text")
	require.Equal(t, logrus.WarnLevel, obs.Log().Level)
}
