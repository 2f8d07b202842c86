package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pfeifer.dev/trackd/cereal"
	"pfeifer.dev/trackd/cli"
	"pfeifer.dev/trackd/params"
	"pfeifer.dev/trackd/settings"
	"pfeifer.dev/trackd/utils"
)

func main() {
	cli.Handle()
	params.EnsureParamDirectories()
	utils.Check(os.MkdirAll(params.BasePath, 0o775))
	settings.Settings.LoadWithRetries(settings.SETTINGS_LOAD_TRIES)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := newEngine(&settings.Settings)
	defer e.Close()

	sub := cereal.NewTelemetrySubscriber()
	defer sub.Sub.Msgq.Close()
	controlSub := cereal.NewControlSubscriber()
	defer controlSub.Sub.Msgq.Close()

	metricsPub := cereal.NewMetricsPublisher()
	statusPub := cereal.NewStatusPublisher()

	lastStatus := time.Now()
	for ctx.Err() == nil {
		time.Sleep(settings.LOOP_DELAY)

		control, success := controlSub.Read()
		if success {
			e.Control(control)
		}

		t, success := sub.Read()
		if success {
			snap, err := e.Process(t)
			if err != nil {
				utils.Logwe(err)
			} else {
				utils.Loge(metricsPub.Send(snap, true))
			}
		}

		if time.Since(lastStatus) >= settings.STATUS_INTERVAL {
			lastStatus = time.Now()
			status, err := e.Status()
			utils.Loge(err)
			utils.Loge(statusPub.Send(status, err == nil))
		}
	}
	slog.Info("shutting down", "episode", e.state.EpisodeID())
}
