package testutil

import (
	"context"

	"github.com/quizdrop/backend/config"
	"github.com/quizdrop/backend/pkg/logger"
	"github.com/quizdrop/backend/pkg/xcontext"
)

// PoapConfigs is a complete vendor configuration with a zero settle delay so
// replenishment tests run without real waiting.
func PoapConfigs() config.PoapConfigs {
	return config.PoapConfigs{
		APIKey:       "test-api-key",
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		Events: map[string]config.EventConfigs{
			"mini app maxi":    {EventID: 101, SecretCode: "secret-101"},
			"verified human":   {EventID: 102, SecretCode: "secret-102"},
			"impact regen":     {EventID: 103, SecretCode: "secret-103"},
			"L2 believer":      {EventID: 104, SecretCode: "secret-104"},
			"stablecoin savvy": {EventID: 105, SecretCode: "secret-105"},
		},
	}
}

func NewMockContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, config.Configs{Env: "testing", Poap: PoapConfigs()})
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	return ctx
}
