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

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/JumpCrypto/Safu/internal/app/safu"
)

// CallerHeader carries the caller identity. Verifying it is an external
// collaborator's job; the core only dispatches on the name.
const CallerHeader = "X-Safu-Caller"

type SafuServer struct {
	vault *safu.Vault
	log   *logrus.Logger
}

func NewSafuServer(vault *safu.Vault, log *logrus.Logger) *SafuServer {
	return &SafuServer{vault: vault, log: log}
}

func RegisterHandlers(e *echo.Echo, s *SafuServer) {
	e.POST("/api/deposits", s.Deposit)
	e.POST("/api/deposits/disable", s.DisableDeposits)
	e.POST("/api/receipts/:id/approve", s.ApproveBounty)
	e.POST("/api/receipts/:id/deny", s.DenyBounty)
	e.GET("/api/receipts/:id/bounty", s.Bounty)
	e.POST("/api/claims", s.Claim)
	e.POST("/api/withdrawals", s.Withdraw)
	e.POST("/api/assets/:asset/cap", s.RaiseCap)
	e.GET("/api/settlements/recent", s.RecentSettlements)
}

func (s *SafuServer) Deposit(ctx echo.Context) error {
	caller, err := caller(ctx)
	if err != nil {
		return err
	}
	request := DepositRequest{}
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, NewSingleMessageError("invalid request body"))
	}
	id, err := s.vault.Deposit(caller, safu.Asset(request.Asset), request.Amount)
	if err != nil {
		return s.renderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, DepositResponse{ReceiptID: uint64(id)})
}

func (s *SafuServer) DisableDeposits(ctx echo.Context) error {
	caller, err := caller(ctx)
	if err != nil {
		return err
	}
	if err := s.vault.DisableDeposits(caller); err != nil {
		return s.renderError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *SafuServer) ApproveBounty(ctx echo.Context) error {
	caller, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := receiptID(ctx)
	if err != nil {
		return err
	}
	if err := s.vault.ApproveBounty(caller, id); err != nil {
		return s.renderError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *SafuServer) DenyBounty(ctx echo.Context) error {
	caller, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := receiptID(ctx)
	if err != nil {
		return err
	}
	if err := s.vault.DenyBounty(caller, id); err != nil {
		return s.renderError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *SafuServer) Bounty(ctx echo.Context) error {
	id, err := receiptID(ctx)
	if err != nil {
		return err
	}
	amount, approved, err := s.vault.Bounty(id)
	if err != nil {
		return s.renderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, BountyResponse{Amount: amount, Approved: approved})
}

func (s *SafuServer) Claim(ctx echo.Context) error {
	caller, err := caller(ctx)
	if err != nil {
		return err
	}
	paid, claimErr := s.vault.Claim(caller)
	if claimErr != nil {
		// Receipts settled before the failure stay settled; report both.
		s.log.Error(claimErr)
		return ctx.JSON(http.StatusBadGateway, ClaimResponse{Paid: paid})
	}
	return ctx.JSON(http.StatusOK, ClaimResponse{Paid: paid})
}

func (s *SafuServer) Withdraw(ctx echo.Context) error {
	caller, err := caller(ctx)
	if err != nil {
		return err
	}
	request := WithdrawRequest{}
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, NewSingleMessageError("invalid request body"))
	}
	if request.Asset != "" {
		amount, err := s.vault.WithdrawAsset(caller, safu.Asset(request.Asset))
		if err != nil {
			return s.renderError(ctx, err)
		}
		withdrawn := map[safu.Asset]uint64{}
		if amount > 0 {
			withdrawn[safu.Asset(request.Asset)] = amount
		}
		return ctx.JSON(http.StatusOK, WithdrawResponse{Withdrawn: withdrawn})
	}
	totals, err := s.vault.Withdraw(caller)
	if err != nil && totals == nil {
		return s.renderError(ctx, err)
	}
	if err != nil {
		s.log.Error(err)
	}
	return ctx.JSON(http.StatusOK, WithdrawResponse{Withdrawn: totals})
}

func (s *SafuServer) RaiseCap(ctx echo.Context) error {
	caller, err := caller(ctx)
	if err != nil {
		return err
	}
	request := RaiseCapRequest{}
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, NewSingleMessageError("invalid request body"))
	}
	raised, err := s.vault.IncreaseBountyCap(caller, safu.Asset(ctx.Param("asset")), request.Delta)
	if err != nil {
		return s.renderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, RaiseCapResponse{Cap: raised})
}

func (s *SafuServer) RecentSettlements(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.vault.Recent())
}

func caller(ctx echo.Context) (string, error) {
	name := ctx.Request().Header.Get(CallerHeader)
	if name == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing "+CallerHeader+" header")
	}
	return name, nil
}

func receiptID(ctx echo.Context) (safu.ReceiptID, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "`id` should be an unsigned integer")
	}
	return safu.ReceiptID(id), nil
}

func (s *SafuServer) renderError(ctx echo.Context, err error) error {
	var code int
	switch errors.Cause(err) {
	case safu.ErrUnauthorized:
		code = http.StatusForbidden
	case safu.ErrNotFound:
		code = http.StatusNotFound
	case safu.ErrInvalidState:
		code = http.StatusConflict
	case safu.ErrZeroAmount, safu.ErrDepositsDisabled, safu.ErrOverflow:
		code = http.StatusBadRequest
	default:
		s.log.Error(err)
		code = http.StatusBadGateway
	}
	return ctx.JSON(code, NewSingleMessageError(err.Error()))
}
