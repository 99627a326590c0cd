package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/events"
	"github.com/spacemeshos/go-governance/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	var autoExecute bool
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Follow layers, log governance events and serve metrics",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return a.serve(c.Context(), autoExecute)
		},
	}
	flags := serve.Flags()
	flags.BoolVar(&a.conf.Metrics.Enable, "metrics", a.conf.Metrics.Enable, "serve prometheus metrics")
	flags.IntVar(&a.conf.Metrics.Port, "metrics-port", a.conf.Metrics.Port, "port of the metrics endpoint")
	flags.BoolVar(&autoExecute, "auto-execute", false, "execute proposals once they are approved")
	return serve
}

func (a *app) serve(ctx context.Context, autoExecute bool) error {
	eg, ctx := errgroup.WithContext(ctx)
	if a.conf.Metrics.Enable {
		srv := metrics.NewServer(a.logger.Named("metrics"), a.conf.Metrics.Port)
		eg.Go(func() error {
			return srv.Run(ctx)
		})
	}
	if err := follow[events.SettingsUpdated](ctx, eg, a); err != nil {
		return err
	}
	if err := follow[events.ProposalCreated](ctx, eg, a); err != nil {
		return err
	}
	if err := follow[events.VoteCast](ctx, eg, a); err != nil {
		return err
	}
	if err := follow[events.ProposalExecuted](ctx, eg, a); err != nil {
		return err
	}
	eg.Go(func() error {
		return a.followLayers(ctx, autoExecute)
	})
	err := eg.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// follow logs events of type T until ctx is canceled.
func follow[T any](ctx context.Context, eg *errgroup.Group, a *app) error {
	sub, err := events.Subscribe[T](a.reporter)
	if err != nil {
		return err
	}
	logger := a.logger.Named("events")
	eg.Go(func() error {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-sub.Out():
				if !ok {
					return nil
				}
				if m, ok := any(&ev).(zapcore.ObjectMarshaler); ok {
					logger.Info("event", zap.Object("event", m))
				} else {
					logger.Info("event", zap.Any("event", ev))
				}
			}
		}
	})
	return nil
}

func (a *app) followLayers(ctx context.Context, autoExecute bool) error {
	for lid := a.clock.CurrentLayer(); ; lid = lid.Add(1) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.clock.AwaitLayer(lid):
		}
		open, err := a.engine.OpenProposals()
		if err != nil {
			return err
		}
		a.logger.Info("new layer", zap.Uint32("layer", lid.Uint32()), zap.Int("open proposals", len(open)))
		if autoExecute {
			if err := a.executeApproved(ctx); err != nil {
				return err
			}
		}
	}
}

// executeApproved executes every proposal that can be executed now.
func (a *app) executeApproved(ctx context.Context) error {
	const page = 100
	for from := types.ProposalID(0); ; {
		batch, err := a.engine.ListProposals(from, page)
		if err != nil {
			return err
		}
		for _, p := range batch {
			if p.Executed {
				continue
			}
			ok, err := a.engine.CanExecute(ctx, p.ID)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := a.engine.Execute(ctx, p.ID); err != nil {
				a.logger.Warn("failed to execute approved proposal", zap.Uint64("proposal", uint64(p.ID)), zap.Error(err))
			}
		}
		if len(batch) < page {
			return nil
		}
		from = batch[len(batch)-1].ID + 1
	}
}
