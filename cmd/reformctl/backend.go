package main

import (
	"context"
	"fmt"
	"io"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/gate"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/ledger"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/logging"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/reform"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/rpc"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/store"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// backend is what the ledger commands need; the local controller and the
// remote client both provide it.
type backend interface {
	Score(ctx context.Context, req reform.Request) (rpc.ScoreReply, error)
	Attempt(ctx context.Context, req reform.Request) (rpc.AttemptReply, error)
	Credit(ctx context.Context, req reform.CreditRequest) (rpc.CreditReply, error)
	Ledger(ctx context.Context, actorID string, mods weights.Modifiers) (reform.LedgerView, error)
	Close() error
}

var (
	_ backend = (*localBackend)(nil)
	_ backend = (*rpc.Client)(nil)
)

// #region local
type localBackend struct {
	ctrl  *reform.Controller
	store *store.Store
}

// openLocal opens the database and builds a controller over the saved
// weights. Logs go to stderr.
func openLocal(opts *rootOptions, stderr io.Writer) (*localBackend, error) {
	st, err := store.NewStore(opts.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	w, warnings, err := st.LoadWeights()
	if err != nil {
		st.Close()
		return nil, err
	}

	logger := logging.NewLogger(stderr, opts.debug)
	for _, warning := range warnings {
		logger.Warn("weights clamped", "detail", warning)
	}
	ctrl := reform.NewController(st, weights.NewLive(w), reform.Options{
		Gate:   gate.DefaultGateConfig(),
		Logger: logger,
		Notifier: ledger.NotifierFunc(func(actorID string, balance, threshold int) {
			logger.Info("reform threshold reached", "actor", actorID, "balance", balance, "threshold", threshold)
		}),
	})
	return &localBackend{ctrl: ctrl, store: st}, nil
}

func (b *localBackend) Score(_ context.Context, req reform.Request) (rpc.ScoreReply, error) {
	p, err := b.ctrl.Preview(req)
	if err != nil {
		return rpc.ScoreReply{}, err
	}
	return rpc.NewScoreReply(p), nil
}

func (b *localBackend) Attempt(_ context.Context, req reform.Request) (rpc.AttemptReply, error) {
	res, err := b.ctrl.Attempt(req)
	if err != nil {
		return rpc.AttemptReply{}, err
	}
	return rpc.NewAttemptReply(res), nil
}

func (b *localBackend) Credit(_ context.Context, req reform.CreditRequest) (rpc.CreditReply, error) {
	res, err := b.ctrl.Credit(req)
	if err != nil {
		return rpc.CreditReply{}, err
	}
	return rpc.NewCreditReply(res), nil
}

func (b *localBackend) Ledger(_ context.Context, actorID string, mods weights.Modifiers) (reform.LedgerView, error) {
	return b.ctrl.Ledger(actorID, mods)
}

func (b *localBackend) Close() error {
	return b.store.Close()
}

// #endregion local

// openBackend picks the remote client when --addr is set.
func openBackend(opts *rootOptions, stderr io.Writer) (backend, error) {
	if opts.addr != "" {
		client, err := rpc.NewClient(opts.addr)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	local, err := openLocal(opts, stderr)
	if err != nil {
		return nil, err
	}
	return local, nil
}
