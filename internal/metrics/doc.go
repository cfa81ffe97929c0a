// Package metrics provides build metrics for bollard.
//
// Components receive a Recorder and default to NoopRecorder, so metrics can be
// collected without nil checks anywhere in the pipeline. The Prometheus
// implementation can be exported to a node_exporter textfile after a build:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	report, err := site.Build(ctx) // with site.WithRecorder(rec)
//	_ = rec.WriteTextfile("/var/lib/node_exporter/bollard.prom")
package metrics
