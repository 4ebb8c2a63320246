// Package app provides application initialization and lifecycle management
// for the dashboard server. It wires configuration, logging, metrics, the
// source clients, and the HTTP surface together at startup and handles
// graceful shutdown.
//
// The typical initialization sequence:
//
//	1. Load configuration from environment and files
//	2. Initialize logging
//	3. Initialize services with their dependencies
//	4. Set up HTTP handlers and middleware
//	5. Configure and start the HTTP server
//	6. Set up graceful shutdown handlers
//
// All initialization errors are returned to the caller; the package never
// calls os.Exit() directly.
package app
