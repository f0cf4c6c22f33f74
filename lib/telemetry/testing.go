package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
)

var (
	setupTestLock         sync.Mutex
	setupTestEnvironments = map[string]bool{}
)

// SetupForTesting sets up telemetry in a testing environment, ensuring that it isn't
// set up more than once per service name. A missing telemetry.json5 only enables
// debug logging.
func SetupForTesting(t testing.TB, serviceName string) func() {
	setupTestLock.Lock()
	defer setupTestLock.Unlock()

	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(true)
	ctx := context.Background()
	err := SetupFromEnv(ctx, serviceName)
	if errors.Is(err, ErrNotConfigured) {
		return func() {}
	}
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := Shutdown(ctx)
		if err != nil {
			t.Fatal(err)
		}
	}
}
