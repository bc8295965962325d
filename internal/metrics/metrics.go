package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Upstream API metrics
var (
	// APIRequestsTotal counts forecast requests by HTTP status ("0" when no response arrived)
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathersnap_api_requests_total",
			Help: "Total number of Open-Meteo forecast requests",
		},
		[]string{"status", "result"},
	)

	// APIRequestDuration tracks the duration of forecast requests
	APIRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weathersnap_api_request_duration_seconds",
			Help:    "Duration of Open-Meteo forecast requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Run metrics
var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathersnap_runs_total",
			Help: "Total number of snapshot runs by outcome",
		},
		[]string{"profile", "result"},
	)

	LastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "weathersnap_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful snapshot",
		},
		[]string{"profile"},
	)

	DailyEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "weathersnap_daily_entries",
			Help: "Number of daily entries in the last written snapshot",
		},
		[]string{"profile"},
	)

	SinkWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathersnap_sink_writes_total",
			Help: "Total number of optional sink writes by sink and outcome",
		},
		[]string{"sink", "result"},
	)
)

// Database metrics
var (
	// DBQueriesTotal tracks the total number of database queries
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries executed",
		},
		[]string{"query_type", "table", "status"},
	)

	// DBQueryDuration tracks the duration of database queries
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of established connections both in use and idle",
		},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of connections currently in use",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle connections",
		},
	)
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordAPIRequest records one forecast request. status is 0 when the request never got a response.
func RecordAPIRequest(status int, duration time.Duration, err error) {
	APIRequestsTotal.WithLabelValues(strconv.Itoa(status), result(err)).Inc()
	APIRequestDuration.Observe(duration.Seconds())
}

// RecordRun records the outcome of a snapshot run
func RecordRun(profile string, dailyEntries int, err error) {
	RunsTotal.WithLabelValues(profile, result(err)).Inc()
	if err != nil {
		return
	}
	LastSuccess.WithLabelValues(profile).SetToCurrentTime()
	DailyEntries.WithLabelValues(profile).Set(float64(dailyEntries))
}

func RecordSinkWrite(sink string, err error) {
	SinkWritesTotal.WithLabelValues(sink, result(err)).Inc()
}

// RecordDBQuery records a database query execution
func RecordDBQuery(queryType, table string, duration time.Duration, err error) {
	DBQueriesTotal.WithLabelValues(queryType, table, result(err)).Inc()
	DBQueryDuration.WithLabelValues(queryType, table).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(open, inUse, idle int) {
	DBConnectionsOpen.Set(float64(open))
	DBConnectionsInUse.Set(float64(inUse))
	DBConnectionsIdle.Set(float64(idle))
}

// Export hands the default registry to a Pushgateway and/or a node_exporter textfile.
// Empty targets are skipped.
func Export(pushgatewayURL, job, textfilePath string) error {
	return export(prometheus.DefaultGatherer, pushgatewayURL, job, textfilePath)
}

func export(g prometheus.Gatherer, pushgatewayURL, job, textfilePath string) error {
	if pushgatewayURL != "" {
		if err := push.New(pushgatewayURL, job).Gatherer(g).Push(); err != nil {
			return fmt.Errorf("failed to push metrics to %s: %w", pushgatewayURL, err)
		}
	}

	if textfilePath != "" {
		if err := prometheus.WriteToTextfile(textfilePath, g); err != nil {
			return fmt.Errorf("failed to write metrics textfile %s: %w", textfilePath, err)
		}
	}

	return nil
}
