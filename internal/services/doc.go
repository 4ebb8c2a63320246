// Package services implements the business logic layer between the HTTP
// handlers and the upstream data sources. It owns source selection (CSV
// export vs tool server), per-dataset orchestration, and insight generation.
//
// Services follow these principles:
//
//	1. Context propagation for cancellation and tracing
//	2. Dependency injection for loose coupling
//	3. Errors transformed into the application taxonomy, not raw transport
//	   failures
//
// # Available Services
//
//	- DashboardService: fetches the three sheets and derives chart series
//	  and insights
//	- DiscoveryService: brute-force tool contract negotiation
//	- HealthService: liveness and readiness checks
package services
