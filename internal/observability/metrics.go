package observability

const (
	MUsecaseRequests         MetricKey = "usecase_requests_total"
	MUsecaseDuration         MetricKey = "usecase_duration_seconds"
	MHTTPRequests            MetricKey = "http_requests_total"
	MHTTPRequestDuration     MetricKey = "http_request_duration_seconds"
	MExternalRequests        MetricKey = "external_requests_total"
	MExternalRequestDuration MetricKey = "external_request_duration_seconds"

	// Checkout domain instruments.
	MOrdersFinalized MetricKey = "orders_finalized_total"
	MOrderValue      MetricKey = "order_value"
	MSessionsOpen    MetricKey = "sessions_opened_total"
	MEventsHandled   MetricKey = "events_handled_total"
)
