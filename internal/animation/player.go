package animation

import (
	"context"
	"log/slog"
	"time"

	"github.com/Ross-123/US-Economic-Dashboard/internal/config"
	"github.com/Ross-123/US-Economic-Dashboard/internal/infra"
	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
)

// Options configures a Player.
type Options struct {
	BaseDelay      time.Duration // divided by speed; default DefaultBaseDelay
	FramesPerSpeed int           // stride divisor; default DefaultFramesPerSpeed
	Metrics        *infra.Metrics
	Logger         *slog.Logger
}

// OptionsFromConfig maps the animation config section onto Options.
func OptionsFromConfig(cfg config.AnimationConfig) Options {
	return Options{
		BaseDelay:      time.Duration(cfg.BaseDelayMS) * time.Millisecond,
		FramesPerSpeed: cfg.MaxFramesPerSpeed,
	}
}

// EmitFunc receives each frame. Returning an error stops playback.
type EmitFunc func(Frame) error

// Player paces a Stepper with a ticker.
type Player struct {
	stepper *Stepper
	speed   int
	delay   time.Duration
	metrics *infra.Metrics
	logger  *slog.Logger
}

// NewPlayer creates a player over tbl at the given speed.
func NewPlayer(tbl *timeseries.Table, speed int, opts Options) (*Player, error) {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	st, err := NewStepper(tbl, speed, opts.FramesPerSpeed)
	if err != nil {
		return nil, err
	}
	return &Player{
		stepper: st,
		speed:   speed,
		delay:   Delay(opts.BaseDelay, speed),
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}, nil
}

// Delay returns the pause between frames.
func (p *Player) Delay() time.Duration { return p.delay }

// Frames returns the total number of frames the player will emit.
func (p *Player) Frames() int { return p.stepper.Len() }

// State returns the stepper state.
func (p *Player) State() State { return p.stepper.State() }

// Run emits every frame, waiting Delay between frames, until the final frame
// has been emitted. It returns ctx.Err() if the context is cancelled first,
// or the error returned by emit. Either way the animation ends Cancelled.
func (p *Player) Run(ctx context.Context, emit EmitFunc) error {
	if p.metrics != nil {
		p.metrics.ActivePlayers.Inc()
		defer p.metrics.ActivePlayers.Dec()
	}
	p.logger.DebugContext(ctx, "animation started",
		"speed", p.speed,
		"frames", p.stepper.Len(),
		"stride", p.stepper.Stride(),
		"delay", p.delay,
	)

	ticker := time.NewTicker(p.delay)
	defer ticker.Stop()

	err := p.run(ctx, ticker.C, emit)
	if err != nil {
		p.stepper.Cancel()
	}
	if p.metrics != nil {
		p.metrics.AnimationsTotal.WithLabelValues(p.stepper.State().String()).Inc()
	}
	p.logger.DebugContext(ctx, "animation finished", "state", p.stepper.State().String())
	return err
}

func (p *Player) run(ctx context.Context, tick <-chan time.Time, emit EmitFunc) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, ok := p.stepper.Next()
		if !ok {
			return nil
		}
		if err := emit(frame); err != nil {
			return err
		}
		if p.metrics != nil {
			p.metrics.FramesRendered.Inc()
		}
		if frame.Final {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
}
