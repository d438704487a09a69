/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package metrics exposes prometheus collectors for persisted values.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation outcomes used as the "result" label.
const (
	ResultOK        = "ok"
	ResultNotFound  = "not_found"
	ResultError     = "error"
	ResultDiscarded = "discarded"
)

// Metrics groups the collectors recorded by persisted values. A nil *Metrics
// records nothing.
type Metrics struct {
	retrievals    *prometheus.CounterVec
	stores        *prometheus.CounterVec
	coalesced     *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		retrievals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "persist_retrievals_total",
			Help: "Retrievals issued by persisted values",
		}, []string{"key", "result"}),
		stores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "persist_stores_total",
			Help: "Stores committed by persisted values",
		}, []string{"key", "result"}),
		coalesced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "persist_coalesced_stores_total",
			Help: "Debounced stores cancelled by a newer mutation",
		}, []string{"key"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "persist_store_duration_seconds",
			Help:    "Backend store latency",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{"key"}),
	}
	if reg != nil {
		reg.MustRegister(m.retrievals, m.stores, m.coalesced, m.storeDuration)
	}
	return m
}

// Retrieved counts one retrieval for key.
func (m *Metrics) Retrieved(key, result string) {
	if m == nil {
		return
	}
	m.retrievals.WithLabelValues(key, result).Inc()
}

// Stored counts one store for key and records how long the backend took.
func (m *Metrics) Stored(key, result string, took time.Duration) {
	if m == nil {
		return
	}
	m.stores.WithLabelValues(key, result).Inc()
	m.storeDuration.WithLabelValues(key).Observe(took.Seconds())
}

// Coalesced counts a pending store that a newer mutation replaced.
func (m *Metrics) Coalesced(key string) {
	if m == nil {
		return
	}
	m.coalesced.WithLabelValues(key).Inc()
}
