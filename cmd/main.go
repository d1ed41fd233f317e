package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/segno/internal/adapters/mididev"
	app "github.com/okian/segno/internal/app"
	"github.com/okian/segno/internal/config"
	"github.com/okian/segno/internal/scoregen"
	"github.com/okian/segno/pkg/effector"
	"github.com/okian/segno/pkg/logger"
	"github.com/okian/segno/pkg/metrics"
	"github.com/okian/segno/pkg/score"
	"github.com/okian/segno/pkg/tick"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

const demoRepeats = 2

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		srv = startMetricsServer(ctx, cfg.MetricsAddr, log)
	}

	dev, err := buildDevice(cfg)
	if err != nil {
		log.Error(ctx, "failed to open device", logger.Error(err))
		return
	}

	player, err := app.New(
		app.WithDevice(dev),
		app.WithLogger(log),
		app.WithLookahead(cfg.Lookahead),
		app.WithTicksPerSecond(cfg.TicksPerSecond),
		app.WithEffectors(buildEffectors(cfg)...),
	)
	if err != nil {
		log.Error(ctx, "failed to build player", logger.Error(err))
		return
	}

	demo, err := scoregen.Demo(demoRepeats)
	if err != nil {
		log.Error(ctx, "failed to build score", logger.Error(err))
		return
	}

	log.Info(ctx, "starting playback",
		logger.String("out_port", cfg.OutPort),
		logger.Float64("ticks_per_second", cfg.TicksPerSecond),
	)
	if err := player.Play(ctx, demo); err != nil && ctx.Err() == nil {
		log.Error(ctx, "playback failed", logger.Error(err))
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "metrics server shutdown failed", logger.Error(err))
		}
	}
}

// buildDevice opens the configured MIDI ports, falling back to an
// offline device that prints events when no out port is configured.
func buildDevice(cfg *config.Config) (*mididev.Device, error) {
	opts := []mididev.Option{}
	if cfg.OutPort != "" {
		opts = append(opts, mididev.WithOutPort(cfg.OutPort))
	} else {
		opts = append(opts, mididev.WithEmit(printEvent))
	}
	if cfg.InPort != "" {
		opts = append(opts, mididev.WithInPort(cfg.InPort))
	}
	return mididev.New(opts...)
}

func printEvent(ev score.Event) {
	fmt.Printf("%s\t%T\ttrack=%d\n", ev.Time(), ev, ev.Track())
}

// buildEffectors assembles the configured transformation chain in a
// fixed order: pitch and velocity shaping, then quantization, then
// humanization last so its offsets survive.
func buildEffectors(cfg *config.Config) []effector.Effector {
	var effs []effector.Effector
	if cfg.Transpose != 0 {
		effs = append(effs, effector.Transpose(cfg.Transpose))
	}
	if cfg.VelocityScale != 1.0 {
		effs = append(effs, effector.ScaleVelocity(cfg.VelocityScale))
	}
	if cfg.QuantizeGrid > 0 {
		effs = append(effs, effector.Quantize(tick.FromFloat(cfg.QuantizeGrid)))
	}
	if cfg.HumanizeTiming > 0 || cfg.HumanizeVelocity > 0 {
		effs = append(effs, effector.Humanize(
			effector.WithTimingJitter(tick.FromFloat(cfg.HumanizeTiming)),
			effector.WithVelocityJitter(cfg.HumanizeVelocity),
		))
	}
	return effs
}

// startMetricsServer serves the engine's Prometheus registry.
func startMetricsServer(ctx context.Context, addr string, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "starting metrics server", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()
	return srv
}
