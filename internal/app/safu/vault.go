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
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/JumpCrypto/Safu/observability"
)

const defaultHistorySize = 1024

// Config carries the behavior toggles of the unified design. The historical
// variants (auto approval, claim gate, denial window, default cap) are
// configuration here, not competing designs.
type Config struct {
	BountyPercent    uint64
	DefaultBountyCap uint64
	MinDelay         time.Duration
	MaxDelay         time.Duration
	// DenialWindow limits how long after deposit a receipt can still be
	// denied; past it the receipt counts as approved. Zero disables the
	// window.
	DenialWindow     time.Duration
	AutoApprove      bool
	RewardsClaimable bool
	HistorySize      int
}

// Vault is the lifecycle controller. It exclusively owns mutation of the
// store and the ledger entries; every operation runs as one critical section,
// and the external transfer is confirmed before any state that assumes its
// success is finalized.
type Vault struct {
	mu        sync.Mutex
	cfg       Config
	log       *logrus.Logger
	clock     Clock
	transfer  AssetTransfer
	authority AuthorityCheck
	store     *Store
	history   *History
	archive   Archive
	disabled  bool

	depositCounter prometheus.Counter
	claimCounter   prometheus.Counter
	denialCounter  prometheus.Counter
	sweepCounter   prometheus.Counter
	archiveErrors  prometheus.Counter
}

func NewVault(
	cfg Config,
	obs *observability.Observability,
	clock Clock,
	transfer AssetTransfer,
	authority AuthorityCheck,
	archive Archive,
) *Vault {
	log := obs.Log()
	if cfg.BountyPercent > 100 {
		log.Warnf("bounty percent %d clamped to 100", cfg.BountyPercent)
		cfg.BountyPercent = 100
	}
	if cfg.MaxDelay < cfg.MinDelay {
		log.Warnf("max delay %s below min delay %s, raised", cfg.MaxDelay, cfg.MinDelay)
		cfg.MaxDelay = cfg.MinDelay
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = defaultHistorySize
	}
	history, err := NewHistory(cfg.HistorySize)
	if err != nil {
		panic(err)
	}
	if archive == nil {
		archive = NopArchive{}
	}
	return &Vault{
		cfg:       cfg,
		log:       log,
		clock:     clock,
		transfer:  transfer,
		authority: authority,
		store:     NewStore(),
		history:   history,
		archive:   archive,
		depositCounter: obs.Counter(prometheus.CounterOpts{
			Name: "safu_deposits_total",
			Help: "Number of accepted deposits.",
		}),
		claimCounter: obs.Counter(prometheus.CounterOpts{
			Name: "safu_claims_total",
			Help: "Number of receipts settled by depositor claims.",
		}),
		denialCounter: obs.Counter(prometheus.CounterOpts{
			Name: "safu_denials_total",
			Help: "Number of denied receipts.",
		}),
		sweepCounter: obs.Counter(prometheus.CounterOpts{
			Name: "safu_sweeps_total",
			Help: "Number of authority withdrawals performed.",
		}),
		archiveErrors: obs.Counter(prometheus.CounterOpts{
			Name: "safu_archive_errors_total",
			Help: "Number of failed archive writes.",
		}),
	}
}

// Restore seeds the in-memory state from the archive. Call once, before
// serving operations.
func (v *Vault) Restore(receipts []*Receipt, entries []*VaultEntry, depositsDisabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.disabled = depositsDisabled
	for _, e := range entries {
		v.store.SeedEntry(e)
	}
	for _, r := range receipts {
		v.store.SeedReceipt(r)
	}
}

// Deposit pulls the amount from the caller and opens a receipt. The nominal
// bounty is fixed here and never recomputed.
func (v *Vault) Deposit(caller string, asset Asset, amount uint64) (ReceiptID, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.disabled {
		return 0, ErrDepositsDisabled
	}
	if amount == 0 {
		return 0, ErrZeroAmount
	}
	if asset == "" {
		return 0, errors.New("empty asset")
	}
	bounty := mulDiv(amount, v.cfg.BountyPercent, 100)
	if v.cfg.AutoApprove {
		if entry := v.store.Entry(asset); entry != nil {
			if _, err := addChecked(entry.Approved, bounty); err != nil {
				return 0, err
			}
		}
	}

	// Nothing is recorded unless the pull succeeds.
	if err := v.transfer.Pull(asset, caller, amount); err != nil {
		return 0, errors.Wrap(err, "deposit transfer failed")
	}

	entry := v.store.EnsureEntry(asset, v.cfg.DefaultBountyCap)
	r := &Receipt{
		ID:          v.store.Allocate(),
		Depositor:   caller,
		Asset:       asset,
		Deposited:   amount,
		Bounty:      bounty,
		DepositedAt: v.clock.Now(),
		State:       StatePending,
	}
	if v.cfg.AutoApprove {
		r.State = StateApproved
		entry.Approved += r.Bounty
	}
	v.store.Add(r)
	entry.mustBeConsistent()

	v.archiveReceipt(r)
	v.archiveEntry(entry)
	v.journal(Operation{Kind: "deposit", Caller: caller, Asset: asset, Receipt: r.ID, Amount: amount, At: r.DepositedAt})
	v.depositCounter.Inc()
	v.log.WithFields(logrus.Fields{
		"receipt": r.ID,
		"asset":   asset,
		"amount":  amount,
	}).Debug("deposit accepted")
	return r.ID, nil
}

// ApproveBounty marks a receipt's bounty payable. Idempotent.
func (v *Vault) ApproveBounty(caller string, id ReceiptID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.authority.IsAuthority(caller) {
		return ErrUnauthorized
	}
	r := v.store.Get(id)
	if r == nil {
		return ErrNotFound
	}
	if r.State == StateApproved {
		return nil
	}
	entry := v.store.Entry(r.Asset)
	approved, err := addChecked(entry.Approved, r.Bounty)
	if err != nil {
		return err
	}
	r.State = StateApproved
	entry.Approved = approved
	entry.mustBeConsistent()

	v.archiveReceipt(r)
	v.archiveEntry(entry)
	v.journal(Operation{Kind: "approve", Caller: caller, Asset: r.Asset, Receipt: id, Amount: r.Bounty, At: v.clock.Now()})
	return nil
}

// DenyBounty removes a pending receipt; the full unswept deposit moves to the
// settled pool. Approved bounties cannot be revoked, and with a denial window
// configured, neither can receipts past it.
func (v *Vault) DenyBounty(caller string, id ReceiptID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.authority.IsAuthority(caller) {
		return ErrUnauthorized
	}
	r := v.store.Get(id)
	if r == nil {
		return ErrNotFound
	}
	if r.State == StateApproved {
		return errors.Wrap(ErrInvalidState, "bounty already approved")
	}
	now := v.clock.Now()
	if v.cfg.DenialWindow > 0 && now.Sub(r.DepositedAt) >= v.cfg.DenialWindow {
		return errors.Wrap(ErrInvalidState, "denial window elapsed")
	}

	entry := v.store.Entry(r.Asset)
	forfeited := r.Remaining()
	entry.Settled += forfeited
	v.store.Remove(id)
	entry.mustBeConsistent()

	v.history.Push(Settlement{
		Receipt:   id,
		Depositor: r.Depositor,
		Asset:     r.Asset,
		Settled:   forfeited,
		Kind:      SettledByDenial,
		At:        now,
	})
	v.archiveDelete(id)
	v.archiveEntry(entry)
	v.journal(Operation{Kind: "deny", Caller: caller, Asset: r.Asset, Receipt: id, Amount: forfeited, At: now})
	v.denialCounter.Inc()
	return nil
}

// Claim settles everything currently claimable for the caller and returns
// the paid amounts per asset. Ineligible receipts are left untouched; with
// the claim gate off the whole call is a silent no-op.
//
// Partial failure policy: receipts settled before a failed transfer stay
// settled, the failing receipt is left intact and the error is returned.
func (v *Vault) Claim(caller string) (map[Asset]uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.cfg.RewardsClaimable {
		return nil, nil
	}
	now := v.clock.Now()
	paid := make(map[Asset]uint64)
	var settled []ReceiptID
	var claimErr error

	// Reads traverse a copy of the index; deletions happen after the loop.
	for _, id := range v.store.DepositorReceipts(caller) {
		r := v.store.Get(id)
		if !v.effectivelyApproved(r, now) {
			continue
		}
		if now.Sub(r.DepositedAt) < v.cfg.MinDelay {
			continue
		}
		entry := v.store.Entry(r.Asset)
		if entry.BountyCap == 0 && !r.Swept() {
			// No bounty budget exists for the asset yet; the receipt stays
			// open instead of settling at zero.
			continue
		}
		if r.State != StateApproved {
			// Past-window approval is materialized here, inside the same
			// critical section, right before the share is computed. A later
			// transfer failure leaves the receipt approved, which matches
			// what the lazy predicate already promised.
			approved, err := addChecked(entry.Approved, r.Bounty)
			if err != nil {
				claimErr = err
				break
			}
			r.State = StateApproved
			entry.Approved = approved
			v.archiveReceipt(r)
		}
		share, _ := Share(r, entry)
		if r.Swept() {
			share = 0
		}
		if share > 0 {
			if err := v.transfer.Push(r.Asset, caller, share); err != nil {
				claimErr = errors.Wrapf(err, "claim transfer for receipt %d failed", id)
				break
			}
		}
		remainder := r.Remaining() - share
		entry.Claimed += share
		entry.Approved -= r.Bounty - share
		entry.Settled += remainder
		entry.mustBeConsistent()

		paid[r.Asset] += share
		settled = append(settled, id)
		v.history.Push(Settlement{
			Receipt:   id,
			Depositor: caller,
			Asset:     r.Asset,
			Paid:      share,
			Settled:   remainder,
			Kind:      SettledByClaim,
			At:        now,
		})
		v.archiveEntry(entry)
		v.journal(Operation{Kind: "claim", Caller: caller, Asset: r.Asset, Receipt: id, Amount: share, At: now})
		v.claimCounter.Inc()
	}

	for _, id := range settled {
		v.store.Remove(id)
		v.archiveDelete(id)
	}
	if len(paid) == 0 {
		paid = nil
	}
	return paid, claimErr
}

// WithdrawAsset sweeps everything currently owed to the authority for one
// asset and returns the amount withdrawn.
func (v *Vault) WithdrawAsset(caller string, asset Asset) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.authority.IsAuthority(caller) {
		return 0, ErrUnauthorized
	}
	return v.withdrawAsset(caller, asset)
}

// withdrawAsset plans read-only first and mutates only after the transfer is
// confirmed, so a transfer failure leaves no receipt half-swept. Lock held by
// the caller.
func (v *Vault) withdrawAsset(caller string, asset Asset) (uint64, error) {
	entry := v.store.Entry(asset)
	if entry == nil {
		return 0, nil
	}
	now := v.clock.Now()

	type plannedSweep struct {
		receipt *Receipt
		take    uint64
	}
	total := entry.Settled
	var sweeps []plannedSweep
	for _, id := range v.store.AssetReceipts(asset) {
		r := v.store.Get(id)
		elapsed := now.Sub(r.DepositedAt)
		var take uint64
		switch {
		case elapsed >= v.cfg.MaxDelay:
			// Anti-lockup valve: past the hard ceiling the whole remainder is
			// recoverable regardless of any pending bounty obligation.
			take = r.Remaining()
		case v.effectivelyApproved(r, now) && elapsed >= v.cfg.MinDelay:
			// Only the non-bounty portion; the bounty stays reserved for the
			// depositor's claim.
			reserved := r.Bounty + r.Withdrawn
			if r.Deposited > reserved {
				take = r.Deposited - reserved
			}
		}
		if take > 0 {
			sweeps = append(sweeps, plannedSweep{receipt: r, take: take})
			total += take
		}
	}
	if total == 0 {
		return 0, nil
	}

	if err := v.transfer.Push(asset, caller, total); err != nil {
		return 0, errors.Wrapf(err, "withdraw transfer for asset %s failed", asset)
	}

	entry.Settled = 0
	for _, s := range sweeps {
		s.receipt.Withdrawn += s.take
		v.archiveReceipt(s.receipt)
	}
	entry.mustBeConsistent()

	v.archiveEntry(entry)
	v.journal(Operation{Kind: "withdraw", Caller: caller, Asset: asset, Amount: total, At: now})
	v.sweepCounter.Inc()
	v.log.WithFields(logrus.Fields{
		"asset":  asset,
		"amount": total,
	}).Debug("authority withdrawal")
	return total, nil
}

// Withdraw sweeps every asset in the registry. One asset's transfer failure
// does not abandon the remaining assets; the first error is returned after
// the sweep completes.
func (v *Vault) Withdraw(caller string) (map[Asset]uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.authority.IsAuthority(caller) {
		return nil, ErrUnauthorized
	}
	totals := make(map[Asset]uint64)
	var firstErr error
	for _, asset := range v.store.Assets() {
		amount, err := v.withdrawAsset(caller, asset)
		if err != nil {
			v.log.Error(err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if amount > 0 {
			totals[asset] = amount
		}
	}
	if len(totals) == 0 {
		totals = nil
	}
	return totals, firstErr
}

// Bounty is the read-only snapshot of a receipt's currently claimable share
// and its effective approval.
func (v *Vault) Bounty(id ReceiptID) (uint64, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	r := v.store.Get(id)
	if r == nil {
		return 0, false, ErrNotFound
	}
	approved := v.effectivelyApproved(r, v.clock.Now())
	if r.Swept() {
		return 0, approved, nil
	}
	share, _ := Share(r, v.store.Entry(r.Asset))
	return share, approved, nil
}

// IncreaseBountyCap raises an asset's bounty budget. The cap only ever grows.
func (v *Vault) IncreaseBountyCap(caller string, asset Asset, delta uint64) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.authority.IsAuthority(caller) {
		return 0, ErrUnauthorized
	}
	if asset == "" {
		return 0, errors.New("empty asset")
	}
	entry := v.store.EnsureEntry(asset, v.cfg.DefaultBountyCap)
	raised, err := addChecked(entry.BountyCap, delta)
	if err != nil {
		return 0, err
	}
	entry.BountyCap = raised

	v.archiveEntry(entry)
	v.journal(Operation{Kind: "raise_cap", Caller: caller, Asset: asset, Amount: delta, At: v.clock.Now()})
	return raised, nil
}

// DisableDeposits sets the one-way latch rejecting all further deposits.
func (v *Vault) DisableDeposits(caller string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.authority.IsAuthority(caller) {
		return ErrUnauthorized
	}
	v.disabled = true
	if err := v.archive.SaveFlag("deposits_disabled", true); err != nil {
		v.archiveErrors.Inc()
		v.log.Error(errors.Wrap(err, "failed to archive deposits flag"))
	}
	v.journal(Operation{Kind: "disable_deposits", Caller: caller, At: v.clock.Now()})
	return nil
}

// Recent returns the retained settlement tail, oldest first.
func (v *Vault) Recent() []Settlement {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.history.Recent()
}

// effectivelyApproved treats a pending receipt as approved once the denial
// window has elapsed. The transition is derived at read time, never stored,
// so there is no second source of truth to drift.
func (v *Vault) effectivelyApproved(r *Receipt, now time.Time) bool {
	if r.State == StateApproved {
		return true
	}
	return v.cfg.DenialWindow > 0 && now.Sub(r.DepositedAt) >= v.cfg.DenialWindow
}

func (v *Vault) archiveReceipt(r *Receipt) {
	if err := v.archive.SaveReceipt(r); err != nil {
		v.archiveErrors.Inc()
		v.log.Error(errors.Wrapf(err, "failed to archive receipt %d", r.ID))
	}
}

func (v *Vault) archiveDelete(id ReceiptID) {
	if err := v.archive.DeleteReceipt(id); err != nil {
		v.archiveErrors.Inc()
		v.log.Error(errors.Wrapf(err, "failed to archive deletion of receipt %d", id))
	}
}

func (v *Vault) archiveEntry(e *VaultEntry) {
	if err := v.archive.SaveEntry(e); err != nil {
		v.archiveErrors.Inc()
		v.log.Error(errors.Wrapf(err, "failed to archive ledger entry %s", e.Asset))
	}
}

func (v *Vault) journal(op Operation) {
	if err := v.archive.LogOperation(op); err != nil {
		v.archiveErrors.Inc()
		v.log.Error(errors.Wrap(err, "failed to journal operation"))
	}
}

func addChecked(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}
