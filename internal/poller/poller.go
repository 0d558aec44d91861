// Package poller implements the periodic measure-and-forward loop.
// Each tick reads filesystem statistics, wraps them in an envelope, forwards
// the envelope and optionally prints it. A failed tick is logged and the loop
// carries on after the normal interval.
package poller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/Guliveer/dup/internal/collector"
	"github.com/Guliveer/dup/internal/models"
)

// TickErrorMessage is the fixed message every failed tick is logged with.
const TickErrorMessage = "dup run ERROR"

// Sender transmits one envelope to the collector.
type Sender interface {
	Send(ctx context.Context, env models.Envelope) error
}

// Poller drives the collection loop for a single path.
type Poller struct {
	collector collector.Collector
	sender    Sender
	interval  time.Duration
	clock     clock.Clock
	debug     io.Writer
	logger    *zap.Logger

	ticks    uint64
	failures uint64
}

// Option customizes a Poller.
type Option func(*Poller)

// WithClock replaces the wall clock used for sleeping between ticks.
func WithClock(c clock.Clock) Option {
	return func(p *Poller) { p.clock = c }
}

// WithDebugWriter enables pretty-printed JSON output of every envelope to w.
func WithDebugWriter(w io.Writer) Option {
	return func(p *Poller) { p.debug = w }
}

// New creates a Poller. A nil sender disables forwarding; statistics are
// still collected and printed.
func New(col collector.Collector, snd Sender, interval time.Duration, logger *zap.Logger, opts ...Option) *Poller {
	p := &Poller{
		collector: col,
		sender:    snd,
		interval:  interval,
		clock:     clock.RealClock{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run ticks immediately and then once per interval until ctx is cancelled.
// The interval is measured from the end of each tick.
func (p *Poller) Run(ctx context.Context) {
	defer func() {
		p.logger.Info("Poller stopped",
			zap.Uint64("ticks", p.ticks),
			zap.Uint64("failures", p.failures))
	}()

	for {
		if ctx.Err() != nil {
			return
		}
		p.runTick(ctx)

		timer := p.clock.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C():
		}
	}
}

// runTick executes one tick and logs its failure, if any.
func (p *Poller) runTick(ctx context.Context) {
	start := p.clock.Now()
	err := p.Tick(ctx)
	p.ticks++

	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return
		}
		p.failures++
		p.logger.Error(TickErrorMessage, zap.Error(err))
		return
	}

	p.logger.Debug("Tick completed",
		zap.Uint64("tick", p.ticks),
		zap.Duration("took", p.clock.Since(start)))
}

// Tick performs one measurement. Collection failure ends the tick early;
// otherwise the debug copy is written whether or not the send succeeded.
func (p *Poller) Tick(ctx context.Context) error {
	stats, err := p.collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collecting %s: %w", p.collector.Name(), err)
	}
	env := models.Envelope{Statvfs: stats}

	var sendErr error
	if p.sender != nil {
		sendErr = p.sender.Send(ctx, env)
	}

	var printErr error
	if p.debug != nil {
		printErr = p.printDebug(env)
	}

	return errors.Join(sendErr, printErr)
}

func (p *Poller) printDebug(env models.Envelope) error {
	out, err := env.Pretty()
	if err != nil {
		return fmt.Errorf("encoding debug output: %w", err)
	}
	if _, err := p.debug.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("writing debug output: %w", err)
	}
	return nil
}
