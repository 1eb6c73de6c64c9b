// Package main provides the CLI entrypoint for punchdrop.
package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/punchdrop/internal/app"
	"github.com/ayusman/punchdrop/internal/config"
	"github.com/ayusman/punchdrop/internal/game"
	"github.com/ayusman/punchdrop/internal/server"
	"github.com/ayusman/punchdrop/internal/store"
	"github.com/ayusman/punchdrop/internal/tray"
)

const version = "0.1.0"

var (
	flagAddr     string
	flagCamera   int
	flagConfig   string
	flagDB       string
	flagStatic   string
	flagHeadless bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "punchdrop",
		Short:         "Webcam punching game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runServeCmd,
	}

	rootCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "HTTP listen address")
	rootCmd.Flags().IntVar(&flagCamera, "camera", 0, "camera device id")
	rootCmd.Flags().StringVar(&flagConfig, "config", defaultConfigPath(), "path to TOML config file")
	rootCmd.Flags().StringVar(&flagDB, "db", "", "path to the rounds database (default ~/.punchdrop/punchdrop.db)")
	rootCmd.Flags().StringVar(&flagStatic, "static", "", "static files directory (default: auto-detect web/)")
	rootCmd.Flags().BoolVar(&flagHeadless, "headless", false, "run without the system tray")

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "punchdrop %s\n", version)
		},
	}
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	var fileCfg config.FileConfig
	var err error
	if flagConfig != "" {
		fileCfg, err = config.LoadConfig(flagConfig)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	addr := flagAddr
	if fileCfg.Server.Addr != nil && !cmd.Flags().Changed("addr") {
		addr = *fileCfg.Server.Addr
	}
	cameraID := flagCamera
	if fileCfg.Camera.Device != nil && !cmd.Flags().Changed("camera") {
		cameraID = *fileCfg.Camera.Device
	}

	dbPath := flagDB
	if dbPath == "" && fileCfg.Server.DBPath != nil {
		dbPath = *fileCfg.Server.DBPath
	}
	if dbPath == "" {
		dbPath, err = defaultDBPath()
		if err != nil {
			return err
		}
	}
	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	motionThresh := 0.0
	if fileCfg.Camera.MotionThresh != nil {
		motionThresh = *fileCfg.Camera.MotionThresh
	}

	application := app.New(app.Config{
		Store:        st,
		CameraID:     cameraID,
		MotionThresh: motionThresh,
		Tuning:       fileCfg.ApplyTuning(game.DefaultTuning()),
	})
	if err := application.Start(); err != nil {
		return fmt.Errorf("failed to start game loops: %w", err)
	}
	defer application.Stop()

	staticDir := flagStatic
	if staticDir == "" && fileCfg.Server.StaticDir != nil {
		staticDir = *fileCfg.Server.StaticDir
	}
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		log.Printf("Serving static files from: %s", staticDir)
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		App:       application,
	})

	if flagHeadless {
		log.Printf("Starting server on %s", addr)
		return srv.ListenAndServe(addr)
	}

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	runTray(application, st, addr)
	return nil
}

// runTray runs the system tray UI. Blocks until quit.
func runTray(application *app.App, st *store.Store, addr string) {
	t := tray.New()
	t.OnToggle(application.SetTracking)
	t.OnOpen(func() {
		if err := openBrowser(gameURL(addr)); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})
	t.OnQuit(func() {
		application.Stop()
	})

	if best, err := st.Rounds().BestScore(); err == nil {
		t.SetBestScore(best)
	}

	// Refresh the best-score line as rounds finish.
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if best, err := st.Rounds().BestScore(); err == nil {
				t.SetBestScore(best)
			}
		}
	}()

	t.Run()
}

func gameURL(addr string) string {
	if addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// defaultConfigPath returns ~/.punchdrop/punchdrop.toml, or empty string
// when the home directory is unknown.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".punchdrop", "punchdrop.toml")
}

// defaultDBPath returns ~/.punchdrop/punchdrop.db, creating the data
// directory if needed.
func defaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	dataDir := filepath.Join(homeDir, ".punchdrop")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return filepath.Join(dataDir, "punchdrop.db"), nil
}

// findWebDir searches for the web directory in common locations.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	homeWebDir := filepath.Join(homeDir, ".punchdrop", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}
