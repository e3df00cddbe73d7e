package service

import "github.com/prometheus/client_golang/prometheus"

var (
	assignmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ecp", Subsystem: "experiment", Name: "assignments_total", Help: "Variant assignment requests, by where the answer came from (cache, store, new, fallback)."},
		[]string{"source"},
	)
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ecp", Subsystem: "experiment", Name: "events_total", Help: "Tracked events, by outcome (recorded, unassigned, unknown_experiment)."},
		[]string{"outcome"},
	)
	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ecp", Subsystem: "experiment", Name: "transitions_total", Help: "Experiment lifecycle transitions."},
		[]string{"action"},
	)
)

func init() {
	_ = prometheus.Register(assignmentsTotal)
	_ = prometheus.Register(eventsTotal)
	_ = prometheus.Register(transitionsTotal)
}
