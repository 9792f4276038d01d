package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/internal/config"
	"github.com/jakechorley/studio-scheduler/pkg/cache"
	"github.com/jakechorley/studio-scheduler/pkg/clients/sheetsclient"
	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/services"
	"github.com/jakechorley/studio-scheduler/pkg/db"
	"github.com/jakechorley/studio-scheduler/pkg/metrics"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Policy allocator.Policy

	// SheetsClient is nil unless sheets credentials are configured
	SheetsClient *sheetsclient.Client
	Database     db.Database

	// Rankings is nil when no redis address is configured
	Rankings *cache.RankingCache
	Metrics  *metrics.Recorder
	Logger   *zap.Logger
	Ctx      context.Context
}

// Sheets returns the sheets client or an error explaining how to configure it
func (app *AppContext) Sheets() (*sheetsclient.Client, error) {
	if app.SheetsClient == nil {
		return nil, fmt.Errorf("google sheets is not configured: set sheets.credentialsFile in the config file")
	}
	return app.SheetsClient, nil
}

// RankingCache returns the configured cache, or nil so the optimiser ranks from scratch
func (app *AppContext) RankingCache() services.RankingCache {
	if app.Rankings == nil {
		return nil
	}
	return app.Rankings
}
