package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonNoToken     = "no_token"
	reasonRemoteError = "remote_error"
	reasonEmpty       = "remote_empty"
)

var (
	fallbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qclog_fallback_total",
		Help: "Reads served from sample data or the local cache instead of the spreadsheet",
	}, []string{"operation", "reason"})

	remoteWriteFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qclog_remote_write_failures_total",
		Help: "Saved logs that reached only the local cache",
	}, []string{"target"}) // target: sheet, journal
)
