/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package persisted

import (
	"log/slog"

	"github.com/suparena/persist/codec"
	"github.com/suparena/persist/metrics"
	"k8s.io/utils/clock"
)

type options struct {
	codec   codec.Codec
	logger  *slog.Logger
	clock   clock.WithDelayedExecution
	metrics *metrics.Metrics
}

// Option configures a Value
type Option func(*options)

// WithCodec sets the codec used to encode the value. The default is JSON.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the clock that times debounced stores.
func WithClock(c clock.WithDelayedExecution) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithMetrics records retrievals and stores in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func defaultOptions() options {
	return options{
		codec:  codec.JSON(),
		logger: slog.Default(),
		clock:  clock.RealClock{},
	}
}
