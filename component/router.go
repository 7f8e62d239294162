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

package component

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JumpCrypto/Safu/configuration"
	"github.com/JumpCrypto/Safu/internal/app/api"
	"github.com/JumpCrypto/Safu/observability"
)

func NewRouter(cfg *configuration.Configuration, obs *observability.Observability, server *api.SafuServer) *Router {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())

	e.GET("/healthcheck", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		obs.Metrics(),
		promhttp.HandlerOpts{},
	)))
	api.RegisterHandlers(e, server)

	return &Router{
		e:    e,
		addr: cfg.API.Addr,
		obs:  obs,
	}
}

type Router struct {
	e    *echo.Echo
	addr string
	obs  *observability.Observability
}

func (r *Router) Start() {
	log := r.obs.Log()
	go func() {
		err := r.e.Start(r.addr)
		if err != nil && err != http.ErrServerClosed {
			log.Error(errors.Wrapf(err, "http server ListenAndServe"))
		}
	}()
}

func (r *Router) Stop() {
	log := r.obs.Log()

	if err := r.e.Shutdown(context.Background()); err != nil {
		log.Error(errors.Wrapf(err, "http server shutdown"))
	}
}
