// Package metrics provides Prometheus metrics for the qsched scheduler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "qsched"
)

var (
	// Scheduling run metrics.
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Scheduling runs by the algorithm that produced the result.",
	}, []string{"algorithm"})

	fallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallbacks_total",
		Help:      "Runs recovered by the classical fallback after a solver failure.",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of a scheduling run.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	scheduledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_scheduled_total",
		Help:      "Requests placed into assignments across all runs.",
	})

	unscheduledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_unscheduled_total",
		Help:      "Requests left unscheduled across all runs.",
	})

	// Batch execution metrics.
	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Jobs currently waiting in the batch queue.",
	})

	workerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "worker_count",
		Help:      "Workers currently running in the batch pool.",
	})

	jobFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_failures_total",
		Help:      "Batch jobs that ended in an error.",
	})
)

// RecordRun counts a completed run under the algorithm that produced it.
func RecordRun(algorithm string) { runsTotal.WithLabelValues(algorithm).Inc() }

// RecordFallback counts a classical fallback.
func RecordFallback() { fallbacksTotal.Inc() }

// ObserveRunDuration records the wall-clock duration of a run in seconds.
func ObserveRunDuration(seconds float64) { runDuration.Observe(seconds) }

// AddScheduled adds to the scheduled-request counter.
func AddScheduled(n int) { scheduledTotal.Add(float64(n)) }

// AddUnscheduled adds to the unscheduled-request counter.
func AddUnscheduled(n int) { unscheduledTotal.Add(float64(n)) }

// UpdateQueueDepth sets the batch queue depth gauge.
func UpdateQueueDepth(n int) { queueDepth.Set(float64(n)) }

// UpdateWorkerCount sets the batch worker gauge.
func UpdateWorkerCount(n int) { workerCount.Set(float64(n)) }

// RecordJobFailure counts a failed batch job.
func RecordJobFailure() { jobFailures.Inc() }
