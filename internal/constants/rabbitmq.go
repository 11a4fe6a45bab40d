package constants

// Exchanges
const (
	ExchangeListingEvents     = "listing_events"
	ExchangeListingEventsType = "topic"
)

// Queues
const (
	QueueListingSubmitted = "listing_submitted_matching"
)

// Routing keys
const (
	RoutingKeyListingSubmitted = "listing.submitted"
)

// Event metadata carried in message headers
const (
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
	HeaderTraceID      = "x-trace-id"

	EventListingSubmitted        = "ListingSubmittedEvent"
	EventListingSubmittedVersion = "1.0.0"
)

// Retry and dead letter topology of the matching queue
const (
	RetryExchange      = "listing_submitted_retry"
	RetryQueue         = "listing_submitted_retry_queue"
	RetryTTLMillis     = 10000
	MaxRetries         = 3
	FinalDLXExchange   = "listing_submitted_final_dlx"
	FinalDLQ           = "listing_submitted_final_dlq"
	FinalDLQRoutingKey = "listing_submitted.dlq.key"
)
