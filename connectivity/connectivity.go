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

package connectivity

import (
	"github.com/go-pg/pg"
	"github.com/pkg/errors"

	"github.com/JumpCrypto/Safu/configuration"
	"github.com/JumpCrypto/Safu/observability"
)

func Make(cfg *configuration.Configuration, obs *observability.Observability) *Connectivity {
	log := obs.Log()
	return &Connectivity{
		pg: func() *pg.DB {
			opt, err := pg.ParseURL(cfg.DB.URL)
			if err != nil {
				log.Fatal(errors.Wrapf(err, "failed to parse cfg.DB.URL"))
			}
			return pg.Connect(opt)
		}(),
	}
}

type Connectivity struct {
	pg *pg.DB
}

func (c *Connectivity) PG() *pg.DB {
	return c.pg
}
