package port

// MetricsPort records service counters. Implementations must be safe for
// concurrent use.
type MetricsPort interface {
	// CategoryClassified counts classifications by source: "ai" or "heuristic"
	CategoryClassified(source string)
	// AIFallback counts AI calls that failed or answered something unusable
	AIFallback(operation string)
	// MatchEvaluated counts criterion checks by kind: "wanted" or "saved_search"
	MatchEvaluated(kind string, matched bool)
	NotificationCreated(notificationType string)
	ListingsArchived(n int)
}
