package constants

import "time"

// Test Constants
//
// IMPORTANT: These constants are for testing only. DO NOT use in production code.

// Integration Test Timeout Constants
const (
	// TestServerStartupDelay is the delay to wait for server startup in integration tests
	TestServerStartupDelay = 100 * time.Millisecond

	// TestGracefulShutdownWait is the delay to wait for graceful shutdown in tests
	TestGracefulShutdownWait = 100 * time.Millisecond

	// TestReadTimeout bounds a single read from a proxied connection in tests
	TestReadTimeout = 2 * time.Second
)
