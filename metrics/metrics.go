// Tideland Go Workpool - Metrics
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"tideland.dev/go/workpool"
)

const namespace = "workpool"

// StatsSource provides the statistics exported by the collector. It
// is implemented by *workpool.Pool.
type StatsSource interface {
	Stats() workpool.Stats
}

// collector reads a fresh snapshot of the statistics on each scrape.
type collector struct {
	source StatsSource

	workers   *prometheus.Desc
	alive     *prometheus.Desc
	running   *prometheus.Desc
	queued    *prometheus.Desc
	submitted *prometheus.Desc
	completed *prometheus.Desc
	failed    *prometheus.Desc
	busy      *prometheus.Desc
}

// NewCollector creates a Prometheus collector for the statistics of
// the given source. All metrics are labelled with the pool name.
func NewCollector(source StatsSource) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", name),
			help,
			[]string{"pool"},
			nil,
		)
	}
	return &collector{
		source:    source,
		workers:   desc("workers", "Number of workers the pool has been started with"),
		alive:     desc("workers_alive", "Number of workers still taking tasks"),
		running:   desc("workers_running", "Number of workers currently executing a task"),
		queued:    desc("queue_length", "Number of tasks waiting in the queue"),
		submitted: desc("tasks_submitted_total", "Total number of accepted tasks"),
		completed: desc("tasks_completed_total", "Total number of tasks returned normally"),
		failed:    desc("tasks_failed_total", "Total number of panicked tasks"),
		busy:      desc("busy_seconds_total", "Accumulated task execution time in seconds"),
	}
}

// Describe implements prometheus.Collector.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.workers
	ch <- c.alive
	ch <- c.running
	ch <- c.queued
	ch <- c.submitted
	ch <- c.completed
	ch <- c.failed
	ch <- c.busy
}

// Collect implements prometheus.Collector.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, s.Name)
	}
	counter := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v, s.Name)
	}

	gauge(c.workers, float64(s.Workers))
	gauge(c.alive, float64(s.Alive))
	gauge(c.running, float64(s.Running))
	gauge(c.queued, float64(s.Queued))
	counter(c.submitted, float64(s.Submitted))
	counter(c.completed, float64(s.Completed))
	counter(c.failed, float64(s.Failed))
	counter(c.busy, s.Busy.Seconds())
}

// EOF
