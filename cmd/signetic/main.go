// Command signetic turns fingerspelled letters seen by a webcam into typed
// text.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/signetic/internal/app"
	"github.com/ayusman/signetic/internal/capture"
	"github.com/ayusman/signetic/internal/config"
	"github.com/ayusman/signetic/internal/console"
	"github.com/ayusman/signetic/internal/gesture"
	"github.com/ayusman/signetic/internal/observe"
	"github.com/ayusman/signetic/internal/plugin"
	"github.com/ayusman/signetic/internal/server"
	"github.com/ayusman/signetic/internal/store"
	"github.com/ayusman/signetic/internal/tray"
	"github.com/ayusman/signetic/internal/typing"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a YAML config file")
	useConsole := flag.Bool("console", false, "show the live status in the terminal")
	useTray := flag.Bool("tray", false, "show a system tray menu")
	calibrate := flag.Bool("calibrate", false, "print classifier accuracy over stored samples and exit")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		cfg = loaded
	}

	logOut := io.Writer(os.Stderr)
	if *useConsole {
		f, err := os.OpenFile(filepath.Join(filepath.Dir(cfg.Store.Path), "signetic.log"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logOut = f
	}
	setupLogging(logOut, cfg.Server.LogLevel)

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to initialize store", "path", cfg.Store.Path, "error", err)
		return 1
	}
	defer st.Close()

	classifier := gesture.NewClassifier(cfg.Classifier, cfg.Wave.Cycles)

	if *calibrate {
		if err := runCalibration(os.Stdout, st, classifier); err != nil {
			slog.Error("calibration failed", "error", err)
			return 1
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "signetic", ServiceVersion: version})
	if err != nil {
		slog.Error("failed to initialize metrics", "error", err)
		return 1
	}
	defer provider.Shutdown(context.Background())

	var metrics *observe.Metrics
	if cfg.Metrics.Enabled {
		metrics = provider.Metrics
	}

	engine := typing.NewEngine(cfg.Pipeline.Config, classifier, gesture.NewWaveTracker(cfg.Wave))
	session := typing.NewSession(engine, typing.WithMetrics(metrics))

	plugins := plugin.NewManager(cfg.Plugins.Dir)
	if err := plugins.Discover(); err != nil {
		slog.Warn("plugin discovery failed", "dir", cfg.Plugins.Dir, "error", err)
	}
	dispatcher := plugin.NewDispatcher(plugins, plugin.NewExecutor(cfg.Plugins.Timeout))

	application := app.New(app.Config{
		TickInterval:     cfg.Pipeline.TickInterval,
		IdleTickInterval: cfg.Pipeline.IdleTickInterval,
		IdleTimeout:      cfg.Pipeline.IdleTimeout,
		MotionThreshold:  cfg.Camera.MotionThreshold,
		KeyboardOutput:   cfg.Plugins.KeyboardOutput,
		SpeechParams:     speechParams(cfg.Plugins.Speech),
	}, app.Deps{
		Camera:     capture.NewCamera(cfg.Camera),
		Detector:   app.NewDetector(cfg.Detector),
		Session:    session,
		Dispatcher: dispatcher,
		Settings:   st.Settings(),
		Metrics:    metrics,
	})

	srvCfg := server.Config{
		StaticDir:  staticDir(cfg.Server.StaticDir),
		Store:      st,
		Session:    session,
		Speaker:    application,
		Classifier: classifier,
		Metrics:    metrics,
	}
	if cfg.Metrics.Enabled {
		srvCfg.MetricsHandler = provider.Handler
		srvCfg.MetricsPath = cfg.Metrics.Path
	}
	srv := server.New(srvCfg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return session.Run(gctx) })
	g.Go(func() error { return application.Run(gctx) })
	g.Go(func() error { return srv.ListenAndServe(gctx, cfg.Server.ListenAddr) })

	if *useConsole {
		screen, err := tcell.NewScreen()
		if err != nil {
			slog.Error("failed to open terminal", "error", err)
			return 1
		}
		con := console.New(screen, session)
		session.OnStatus(con.Publish)
		g.Go(func() error { return con.Run(gctx) })
	}

	if *useTray {
		t := newTray(application, session, st, cfg.Server.ListenAddr, stop)
		go func() {
			<-gctx.Done()
			t.Quit()
		}()
		t.Run()
		stop()
	}

	err = g.Wait()
	switch {
	case err == nil, errors.Is(err, console.ErrQuit):
		slog.Info("signetic stopped")
		return 0
	default:
		slog.Error("signetic failed", "error", err)
		return 1
	}
}

func setupLogging(w io.Writer, level config.LogLevel) {
	var l slog.Level
	switch level {
	case config.LogDebug:
		l = slog.LevelDebug
	case config.LogWarn:
		l = slog.LevelWarn
	case config.LogError:
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})))
}

func speechParams(s config.SpeechConfig) map[string]any {
	params := map[string]any{}
	if s.Voice != "" {
		params["voice"] = s.Voice
	}
	if s.Rate > 0 {
		params["rate"] = s.Rate
	}
	return params
}

// staticDir returns dir when it exists, otherwise "" so the dashboard
// route is simply not registered.
func staticDir(dir string) string {
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		if abs, err := filepath.Abs(dir); err == nil {
			return abs
		}
		return dir
	}
	slog.Debug("static dir not found, dashboard disabled", "dir", dir)
	return ""
}

func newTray(a *app.App, session *typing.Session, st *store.Store, addr string, stop func()) *tray.Tray {
	t := tray.New(a.IsEnabled())
	t.OnToggle(a.SetEnabled)
	t.OnSpeak(func() {
		if err := a.Speak(context.Background()); err != nil {
			slog.Warn("speak failed", "error", err)
		}
	})
	t.OnEdit(func(op typing.EditOp) {
		if _, err := session.Edit(context.Background(), op); err != nil {
			slog.Warn("tray edit failed", "op", op, "error", err)
		}
	})
	t.OnSave(func() {
		text := session.Status().Text
		if text == "" {
			return
		}
		if _, err := st.Transcripts().Create(text); err != nil {
			slog.Warn("failed to save transcript", "error", err)
		}
	})
	t.OnDashboard(func() { openBrowser("http://" + dashboardHost(addr)) })
	t.OnQuit(stop)
	session.OnStatus(t.SetStatus)
	return t
}

func dashboardHost(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		slog.Warn("failed to open browser", "url", url, "error", err)
		return
	}
	go cmd.Wait()
}
