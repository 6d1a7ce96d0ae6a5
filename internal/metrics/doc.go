// Package metrics provides run metrics for roll.
//
// Components receive a Recorder. NoopRecorder is the default and does
// nothing; PrometheusRecorder collects into its own registry, which the CLI
// writes out in the Prometheus text format when --metrics-file is given
// (suitable for the node_exporter textfile collector).
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	runner := roll.NewRunner(cfg, fetcher, roll.WithRecorder(rec))
//	...
//	_ = rec.WriteTextfile(path)
package metrics
