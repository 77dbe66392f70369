package main

import (
	"testing"
)

func TestV1Routing(t *testing.T) {
	// Route registration is exercised through the per-handler tests; wiring
	// the full server needs Postgres and provider credentials.
	t.Run("v1 prefix required", func(t *testing.T) {
		t.Skip("requires full server setup - integration test needed")
	})
}
