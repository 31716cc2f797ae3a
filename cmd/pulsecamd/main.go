// Command pulsecamd runs the pulse detection daemon. It consumes camera
// frame samples from NATS (or a MAX30102 sensor with --source=sensor),
// drives the pulsecam Monitor, and republishes pulse readings to NATS and to
// websocket clients.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tgarrido/pulsecam"
	"github.com/tgarrido/pulsecam/internal/config"
	"github.com/tgarrido/pulsecam/internal/server"
	"github.com/tgarrido/pulsecam/internal/stream"
	"github.com/tgarrido/pulsecam/sensor"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor := pulsecam.New(
		pulsecam.WithSampleRate(cfg.GetFloat64("monitor.sample_rate")),
		pulsecam.WithWarmup(cfg.GetInt("monitor.warmup")),
		pulsecam.WithQualityGate(
			cfg.GetFloat64("monitor.min_saturation"),
			cfg.GetFloat64("monitor.min_brightness"),
		),
	)

	nc, err := stream.Connect(cfg.GetString("nats.url"), cfg.GetString("nats.name"))
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Drain()

	metrics := server.NewMetrics()
	hub := server.NewHub()

	srv := server.New(cfg.GetString("server.addr"), hub, monitor.Reading, logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	go pumpEvents(ctx, monitor, nc, hub, metrics, logger)

	switch src := cfg.GetString("source"); src {
	case "nats":
		sub, err := subscribeFrames(nc, monitor, metrics, logger)
		if err != nil {
			return err
		}
		defer sub.Unsubscribe()
	case "sensor":
		if err := runSensor(ctx, cfg, monitor, metrics, logger); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown source %q: must be \"nats\" or \"sensor\"", src)
	}

	logger.Info("pulsecamd running", zap.String("source", cfg.GetString("source")))

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// subscribeFrames feeds NATS frame batches into the monitor.
func subscribeFrames(nc *nats.Conn, monitor *pulsecam.Monitor, metrics *server.Metrics, logger *zap.Logger) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(stream.SubjectFrames, func(msg *nats.Msg) {
		frames, err := stream.DecodeFrames(msg.Data)
		if err != nil {
			logger.Warn("dropping malformed frame batch", zap.Error(err))
			return
		}
		for _, f := range frames {
			metrics.FramesTotal.Inc()
			monitor.OnFrame(f.Hue, f.Saturation, f.Brightness, f.Time)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", stream.SubjectFrames, err)
	}
	return sub, nil
}

// runSensor opens the MAX30102 and feeds its frames into the monitor.
func runSensor(ctx context.Context, cfg *viper.Viper, monitor *pulsecam.Monitor, metrics *server.Metrics, logger *zap.Logger) error {
	dev, err := sensor.Open(cfg.GetString("sensor.bus"), uint16(cfg.GetUint("sensor.addr")))
	if err != nil {
		return fmt.Errorf("open sensor: %w", err)
	}

	src := sensor.NewSource(dev)
	go func() {
		defer dev.Close()
		if err := src.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("sensor source stopped", zap.Error(err))
		}
	}()
	go func() {
		for f := range src.Frames() {
			metrics.FramesTotal.Inc()
			monitor.OnFrame(f.Hue, f.Saturation, f.Brightness, f.Time)
		}
	}()

	return nil
}

// pumpEvents republishes monitor events to NATS and websocket clients and
// keeps the metrics current.
func pumpEvents(ctx context.Context, monitor *pulsecam.Monitor, nc *nats.Conn, hub *server.Hub, metrics *server.Metrics, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-monitor.Events():
			switch e.Type {
			case pulsecam.EventMeasurementStarted:
				metrics.SessionsTotal.Inc()
				logger.Info("measurement started", zap.String("session", e.Session))
			case pulsecam.EventPulse:
				metrics.PulsesTotal.Inc()
				metrics.CurrentBPM.Set(e.BPM)

				msg := stream.PulseMsg{
					Session: e.Session,
					Ts:      time.Now().UnixMilli(),
					At:      e.At,
					BPM:     e.BPM,
				}
				b, err := json.Marshal(msg)
				if err != nil {
					logger.Warn("could not marshal pulse", zap.Error(err))
					continue
				}
				if err := nc.Publish(stream.SubjectPulse, b); err != nil {
					logger.Warn("could not publish pulse", zap.Error(err))
				}
				hub.Broadcast(b)

				logger.Debug("pulse", zap.Float64("bpm", e.BPM), zap.String("session", e.Session))
			case pulsecam.EventMeasurementEnded:
				metrics.CurrentBPM.Set(0)
				logger.Info("measurement ended", zap.String("session", e.Session))
			}
		}
	}
}
