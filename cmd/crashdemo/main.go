//go:build linux

// Command crashdemo embeds the crash capture package the way an application
// would: it loads its config, wires logging and PostHog error tracking,
// installs the handlers and waits for a fault. -trigger raises a signal from
// native code to exercise the whole pipeline.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sys/unix"

	"github.com/lzhiyong/xedit-app/crash"
	"github.com/lzhiyong/xedit-app/internal/config"
	"github.com/lzhiyong/xedit-app/internal/logger"
	"github.com/lzhiyong/xedit-app/internal/posthog"
	"github.com/lzhiyong/xedit-app/internal/screen"
)

type app struct {
	cfg     *config.Config
	posthog *posthog.Client
	done    chan int
}

func main() {
	configPath := flag.String("config", "./crashdemo.yaml", "path to the YAML config")
	trigger := flag.String("trigger", "", "raise this signal (e.g. SIGSEGV) after installing the handlers")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil && cfg == nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Path); err != nil {
		fmt.Fprintf(os.Stderr, "log: %v\n", err)
	}
	defer logger.Close()
	if err != nil {
		logger.Warnf("Could not save config: %v", err)
	}

	a := &app{cfg: cfg, done: make(chan int, 1)}
	a.initPostHog()
	defer a.posthog.Close()

	// Go panics never reach the signal handler; report them the same way.
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 16384)
			n := runtime.Stack(buf, true)
			logger.Fatalf("Application crashed with panic: %v\n%s", r, buf[:n])
			a.posthog.CaptureCrash("go_panic", fmt.Sprintf("panic: %v\n%s", r, buf[:n]))
			panic(r)
		}
	}()

	logger.Msg("-----------")
	logger.Infof("%s crashdemo %s started (installation %s)", APP_NAME, APP_VERSION, cfg.InstallationID)

	if err := crash.InitWithConfig(a.crashConfig(), a.handleCrash); err != nil {
		logger.Warnf("Crash capture degraded: %v", err)
	}

	if *trigger != "" {
		sig, err := crash.Signal(*trigger)
		if err != nil {
			logger.Errorf("-trigger: %v", err)
			os.Exit(2)
		}
		logger.Infof("Triggering %s", *trigger)
		crash.Trigger(sig)
	}

	sig := <-a.done
	logger.Infof("Exiting after signal %d", sig)
	a.posthog.Close()
	logger.Close()
	os.Exit(128 + sig)
}

func (a *app) initPostHog() {
	token := a.cfg.Report.PostHogToken
	if token == "" {
		token = POSTHOG_TOKEN
	}
	if !a.cfg.Report.PostHogEnabled {
		logger.Infof("PostHog disabled")
		return
	}
	if token == "" {
		logger.Infof("PostHog enabled but no token configured or built in, disabled")
		return
	}

	a.posthog = posthog.New(posthog.Options{
		Token:       token,
		Endpoint:    a.cfg.Report.PostHogEndpoint,
		DistinctID:  a.cfg.InstallationID,
		Version:     APP_VERSION,
		InsecureTLS: a.cfg.Report.PostHogInsecureTLS,
		Timeout:     time.Duration(a.cfg.Report.TimeoutSeconds) * time.Second,
	})
	logger.SetHook(a.posthog.Capture)
	logger.Infof("PostHog client initialized and enabled")
}

func (a *app) crashConfig() crash.Config {
	cc := crash.DefaultConfig()
	if len(a.cfg.Crash.Signals) > 0 {
		cc.Signals = cc.Signals[:0]
		for _, name := range a.cfg.Crash.Signals {
			if sig, err := crash.Signal(name); err == nil {
				cc.Signals = append(cc.Signals, sig)
			}
		}
	}
	cc.Watchdog = time.Duration(a.cfg.Crash.WatchdogSeconds) * time.Second
	cc.AltStackSize = a.cfg.Crash.AltStackKB << 10
	return cc
}

// handleCrash runs on the crash consumer thread. The faulting thread may
// already be on its way down, so the report is written out first.
func (a *app) handleCrash(signal int, report string) {
	logger.Sync()

	// Send crash report synchronously before anything slower
	reportID, err := a.posthog.CaptureCrash(unix.SignalName(unix.Signal(signal)), report)
	if err != nil {
		logger.Warnf("Crash report not sent: %v", err)
	} else {
		logger.Infof("Crash report %s handled", reportID)
	}

	if path := a.cfg.Report.ScreenPath; path != "" {
		s := screen.Render(fmt.Sprintf("%s %s crashed", APP_NAME, APP_VERSION), report, reportID, screen.ThemeCrash)
		if err := s.SavePNG(path); err != nil {
			logger.Warnf("Crash screen not saved: %v", err)
		} else {
			logger.Infof("Crash screen saved to %s", path)
			err := a.posthog.Track("crash_screen_rendered", map[string]interface{}{
				"report_id": reportID,
				"signal":    signal,
				"path":      path,
			})
			if err != nil {
				logger.Infof("crash_screen_rendered not sent: %v", err)
			}
		}
	}
	logger.Sync()

	if a.cfg.Report.Reraise {
		// Re-raise with the default handler to get normal crash behavior
		sig := unix.Signal(signal)
		if err := crash.Reset(sig); err != nil {
			logger.Errorf("Could not reset %d: %v", signal, err)
		}
		unix.Kill(unix.Getpid(), sig)
	}

	select {
	case a.done <- signal:
	default:
	}
}
