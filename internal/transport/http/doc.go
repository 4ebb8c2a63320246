// Package http implements the HTTP request handlers for the dashboard
// service. Handlers stay thin: request parsing and response formatting here,
// business logic in the services layer.
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Source
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/schema-mismatch",
//	    "title": "Schema Mismatch",
//	    "status": 422,
//	    "detail": "variation: missing required columns [date]",
//	    "instance": "/api/charts/variation"
//	}
package http
