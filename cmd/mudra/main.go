package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	fmt.Println("Mudra - Hand Gesture Control")

	// Invalid configuration stops the program before the pipeline starts.
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize the store
	dbPath := cfg.Storage.Path
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dbDir := filepath.Join(homeDir, ".mudra")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "mudra.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Dispatcher with persisted outcome log
	dispatcher := control.NewDispatcher(cfg.Control.URL, cfg.Control.Timeout(), cfg.Control.QueueSize)
	recorder := store.NewRecorder(st)
	dispatcher.SetReporter(recorder)

	enabled := restoreEnabled(st, cfg.Control.Enabled)
	dispatcher.SetEnabled(enabled)

	// Optional body detector; a configured but unloadable cascade is a
	// configuration error.
	var body *detector.BodyDetector
	if cfg.Body.Enabled {
		body, err = detector.NewBodyDetector(cfg.Body.CascadePath)
		if err != nil {
			log.Fatalf("Failed to load body cascade: %v", err)
		}
	}

	a := app.New(app.Config{
		CameraID:     cfg.Camera.DeviceID,
		StreamURL:    cfg.Camera.StreamURL,
		MotionThresh: cfg.Camera.MotionThreshold,
		Detector: detector.Config{
			MaxHands:        cfg.Detector.MaxHands,
			MinConfidence:   cfg.Detector.MinConfidence,
			MinTrackingConf: cfg.Detector.MinTrackingConf,
		},
		Body:        body,
		Mapping:     cfg.Control.Mapping(),
		Gate:        control.NewGate(cfg.Control.Cooldown()),
		Dispatcher:  dispatcher,
		SnapshotDir: filepath.Join(filepath.Dir(dbPath), "snapshots"),
	})
	// Detection and the preview always run; the enabled switch gates
	// dispatch only.
	a.SetEnabled(true)

	dispatcher.Start()
	defer dispatcher.Stop()

	// Check the command endpoint once at startup; a dead endpoint is
	// worth a warning, not a refusal to run.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Control.Timeout())
		defer cancel()
		if err := dispatcher.Probe(ctx); err != nil {
			log.Printf("Command endpoint %s is not reachable: %v", dispatcher.URL(), err)
		} else {
			log.Printf("Command endpoint %s is reachable", dispatcher.URL())
		}
	}()

	// Configure and start the HTTP server
	srv := server.New(server.Config{
		StaticDir:  findWebDir(),
		Store:      st,
		App:        a,
		Dispatcher: dispatcher,
		Recorder:   recorder,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Start the detection pipeline. The dashboard and API stay useful
	// even when no camera is attached.
	if err := a.Start(); err != nil {
		log.Printf("Failed to start detection pipeline: %v", err)
	}
	defer a.Stop()

	runTray(a, dispatcher, st, cfg, enabled)
}

// runTray wires the system tray to the application and blocks until quit.
func runTray(a *app.App, dispatcher *control.Dispatcher, st *store.Store, cfg *config.Config, enabled bool) {
	tr := tray.New(enabled)

	a.OnGesture(func(label gesture.Label, handedness string) {
		if label != gesture.Unknown {
			tr.SetLastGesture(string(label))
		}
	})

	tr.OnToggle(func(enabled bool) {
		dispatcher.SetEnabled(enabled)
		persistEnabled(st, enabled)
	})

	tr.OnProbe(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Control.Timeout())
		defer cancel()
		err := dispatcher.Probe(ctx)
		tr.SetEndpointStatus(err == nil)
		if err != nil {
			log.Printf("Connection test failed: %v", err)
		} else {
			log.Printf("Connection test succeeded")
		}
	})

	tr.OnSettings(func() {
		openBrowser(fmt.Sprintf("http://localhost%s/", cfg.Server.Addr))
	})

	tr.OnQuit(func() {
		log.Println("Shutting down")
	})

	tr.Run()
}

// restoreEnabled returns the enabled state persisted from a previous
// run, falling back to the configured default.
func restoreEnabled(st *store.Store, fallback bool) bool {
	value, err := st.Settings().Get(api.EnabledSettingKey)
	if err != nil {
		return fallback
	}
	return value == "true"
}

func persistEnabled(st *store.Store, enabled bool) {
	value := "false"
	if enabled {
		value = "true"
	}
	if err := st.Settings().Set(api.EnabledSettingKey, value); err != nil {
		log.Printf("Failed to persist enabled state: %v", err)
	}
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	if err := exec.Command("open", url).Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
