package usecase

import "listing-service/internal/core/port"

type noopMetrics struct{}

func (noopMetrics) CategoryClassified(string) {}
func (noopMetrics) AIFallback(string) {}
func (noopMetrics) MatchEvaluated(string, bool) {}
func (noopMetrics) NotificationCreated(string) {}
func (noopMetrics) ListingsArchived(int) {}

// orNoopMetrics lets constructors accept a nil MetricsPort.
func orNoopMetrics(m port.MetricsPort) port.MetricsPort {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
