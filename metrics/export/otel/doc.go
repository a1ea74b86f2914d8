// Package otel exposes goBlog metrics through an OpenTelemetry Meter.
//
// [NewExporter] creates one Int64ObservableCounter per engine counter and a
// pair of gauges for the request latency histogram (buckets keyed by an le
// attribute, plus a sample count). A single callback reads the engine
// snapshot on every collection. Callers own the MeterProvider.
package otel
