package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/subsense/internal/clock"
	"github.com/smallbiznis/subsense/internal/config"
	"github.com/smallbiznis/subsense/internal/extractor"
	"github.com/smallbiznis/subsense/internal/insights"
	"github.com/smallbiznis/subsense/internal/migration"
	"github.com/smallbiznis/subsense/internal/observability"
	"github.com/smallbiznis/subsense/internal/profile"
	"github.com/smallbiznis/subsense/internal/reminder"
	"github.com/smallbiznis/subsense/internal/report"
	"github.com/smallbiznis/subsense/internal/scheduler"
	"github.com/smallbiznis/subsense/internal/server"
	"github.com/smallbiznis/subsense/internal/subscription"
	"github.com/smallbiznis/subsense/internal/usage"
	"github.com/smallbiznis/subsense/pkg/db"
	"github.com/smallbiznis/subsense/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		observability.Module,
		migration.Module,

		subscription.Module,
		profile.Module,
		reminder.Module,
		extractor.Module,
		insights.Module,
		usage.Module,
		report.Module,

		scheduler.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
