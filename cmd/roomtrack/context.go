package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/roomtrack/backend/config"
	"github.com/roomtrack/backend/internal/report"
	"github.com/roomtrack/backend/internal/rooms"
	"github.com/roomtrack/backend/internal/webhook"
	"github.com/roomtrack/backend/internal/zoomapi"
	"github.com/roomtrack/backend/pkg/database"
)

// commandContext lazily wires shared collaborators for subcommands.
type commandContext struct {
	verbose *bool

	cfg    *config.Config
	loc    *time.Location
	logger *zap.Logger
}

func newCommandContext(verbose *bool) *commandContext {
	return &commandContext{verbose: verbose}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	loc, err := cfg.Report.Location()
	if err != nil {
		return nil, fmt.Errorf("report timezone: %w", err)
	}
	c.cfg = cfg
	c.loc = loc
	return cfg, nil
}

func (c *commandContext) log() *zap.Logger {
	if c.logger == nil {
		if c.verbose != nil && *c.verbose {
			c.logger, _ = zap.NewDevelopment()
		} else {
			c.logger = zap.NewNop()
		}
	}
	return c.logger
}

func (c *commandContext) openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), c.log())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return pool, nil
}

func (c *commandContext) eventRepo(pool *pgxpool.Pool) *webhook.Repository {
	return webhook.NewRepository(pool, c.loc)
}

func (c *commandContext) mapping() *rooms.Mapping {
	return rooms.LoadMapping(c.cfg.Report.MappingFile)
}

// zoomClient returns a Zoom API client, or nil when credentials are not
// configured. The CLI uses an in-memory token cache.
func (c *commandContext) zoomClient() *zoomapi.Client {
	if c.cfg.Zoom.ClientID == "" || c.cfg.Zoom.MeetingID == "" {
		return nil
	}
	return zoomapi.NewClient(c.cfg.Zoom, zoomapi.NewMemoryTokenCache(), c.loc, c.log())
}

func (c *commandContext) newEngine(pool *pgxpool.Pool) *report.Engine {
	var samples report.SampleSource
	if zc := c.zoomClient(); zc != nil {
		samples = zc
	}
	writer := report.NewWriter(c.cfg.Report.OutputDir)
	return report.NewEngine(c.eventRepo(pool), samples, c.mapping(), writer, c.loc, c.log())
}

// defaultDate returns yesterday in the report timezone. Reports run the day
// after capture, once the QOS dashboard has settled, so a bare invocation
// targets the last finished meeting day rather than today's empty one.
func (c *commandContext) defaultDate() string {
	return previousDay(time.Now(), c.loc)
}

func previousDay(now time.Time, loc *time.Location) string {
	return now.In(loc).AddDate(0, 0, -1).Format("2006-01-02")
}
