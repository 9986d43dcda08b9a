package observability

import (
	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProjectsConvertedTotal counts converted projects by result
	ProjectsConvertedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vcproj2cmake_projects_converted_total",
			Help: "Total number of project conversions by result",
		},
		[]string{"result"}, // wrote, unchanged, failed
	)

	// DiagnosticsTotal counts diagnostics raised while parsing and generating
	DiagnosticsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vcproj2cmake_diagnostics_total",
			Help: "Total number of conversion diagnostics by kind",
		},
		[]string{"kind"}, // unknown_attribute, unknown_element, unconverted_setting, unknown_variable, utility_type, no_sources, missing_file, ...
	)

	// FilesSkippedTotal counts project files left out of the source lists
	FilesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vcproj2cmake_files_skipped_total",
			Help: "Total number of project files skipped by reason",
		},
		[]string{"reason"}, // extension, excluded, custom_build, idl_generated, library, generated_filter, build_event
	)

	// PhaseDuration tracks the duration of the conversion phases in seconds
	PhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vcproj2cmake_phase_duration_seconds",
			Help:    "Conversion phase duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to 4s
		},
		[]string{"phase"}, // parse, generate, commit
	)
)

// WriteMetricsFile writes all registered metrics to path in the text
// exposition format, for pickup by a node exporter textfile collector.
func WriteMetricsFile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// GetCounterValue retrieves the current value of a counter metric with the given labels
// This is primarily intended for testing
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}

	return 0, nil
}
