package pool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Names of the collectors created by NewMetrics.
const (
	SubmittedTasksName = "tasks_submitted_total"
	CompletedTasksName = "tasks_completed_total"
	FailedTasksName    = "tasks_failed_total"
	RejectedTasksName  = "tasks_rejected_total"
	QueuedTasksName    = "tasks_queued"
	BusyWorkersName    = "workers_busy"
	TaskDurationName   = "task_duration_seconds"
)

// Metrics holds the Prometheus collectors a Pool reports into.
// A nil *Metrics records nothing.
type Metrics struct {
	Submitted prometheus.Counter
	Completed prometheus.Counter
	Failed    prometheus.Counter
	Rejected  prometheus.Counter
	Queued    prometheus.Gauge
	Busy      prometheus.Gauge
	Duration  prometheus.Histogram
}

// NewMetrics creates the pool collectors under namespace and subsystem and
// registers them with reg. A nil reg leaves them unregistered, which is
// useful when several pools share one set of collectors.
func NewMetrics(namespace, subsystem string, reg prometheus.Registerer) (*Metrics, error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}

	m := &Metrics{
		Submitted: counter(SubmittedTasksName, "Tasks accepted by the pool."),
		Completed: counter(CompletedTasksName, "Tasks that finished without error."),
		Failed:    counter(FailedTasksName, "Tasks that returned an error or panicked."),
		Rejected:  counter(RejectedTasksName, "Submissions refused because the pool was shutting down."),
		Queued:    gauge(QueuedTasksName, "Accepted tasks waiting for a worker."),
		Busy:      gauge(BusyWorkersName, "Workers currently running a task."),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      TaskDurationName,
			Help:      "Time spent running each task, retries included.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Submitted, m.Completed, m.Failed, m.Rejected,
		m.Queued, m.Busy, m.Duration,
	}
}

func (m *Metrics) submittedTask() {
	if m == nil {
		return
	}
	m.Submitted.Inc()
	m.Queued.Inc()
}

func (m *Metrics) rejectedTask() {
	if m == nil {
		return
	}
	m.Rejected.Inc()
}

func (m *Metrics) startedTask() {
	if m == nil {
		return
	}
	m.Queued.Dec()
	m.Busy.Inc()
}

func (m *Metrics) finishedTask(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Busy.Dec()
	m.Duration.Observe(elapsed.Seconds())
	if err != nil {
		m.Failed.Inc()
	} else {
		m.Completed.Inc()
	}
}
