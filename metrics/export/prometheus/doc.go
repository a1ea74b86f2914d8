// Package prometheus renders goBlog metrics in Prometheus text format.
//
// [Exporter] is an http.Handler; mount it at /metrics. Counters are named
// goblog_*_total and the request latency histogram is
// goblog_request_latency_seconds. Nothing is registered globally.
package prometheus
