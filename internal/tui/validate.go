// ABOUTME: Connection validation for the aggregator API.
// ABOUTME: Tests the configured endpoint by calling GET /health.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/2389-research/newsdeck/internal/api"
)

// ValidateConnection checks that the API answers /health with success.
// The context allows cancellation when the user quits during validation.
func ValidateConnection(ctx context.Context, apiURL, apiKey string) error {
	client := api.NewClient(apiURL, apiKey, 10*time.Second)

	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	if !health.Success {
		return fmt.Errorf("API reported unhealthy status %q", health.Status)
	}
	return nil
}
