// Package app wires the capture, tracking, game, and storage subsystems
// into the running punchdrop application.
package app

import (
	"log"
	"math/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/punchdrop/internal/capture"
	"github.com/ayusman/punchdrop/internal/detector"
	"github.com/ayusman/punchdrop/internal/game"
	"github.com/ayusman/punchdrop/internal/store"
)

// settingTracking is the settings key for the persisted tracking toggle.
const settingTracking = "tracking_enabled"

// Loop timing constants.
const (
	// TickIntervalMs is the fixed game update step.
	TickIntervalMs = 16
	// SampleIntervalMs is the hand sampling cadence while the scene is
	// moving. Pose inference is the expensive part of the pipeline, so
	// it runs well below the tick rate.
	SampleIntervalMs = 80
	// IdleSampleIntervalMs is the sampling cadence after the scene has
	// been still for IdleTimeoutMs.
	IdleSampleIntervalMs = 400
	// IdleTimeoutMs is how long without motion before sampling slows.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	Tuning       game.Tuning
}

// App owns the game engine and the two periodic tasks that drive it: the
// fast update tick and the slower hand sampler. All engine mutation
// happens on the tick goroutine; the sampler and any external callers
// communicate through single-producer handoffs (the engine's sample slot
// and the app's command queue).
type App struct {
	config Config
	camera capture.Camera
	motion *capture.MotionDetector
	engine *game.Engine

	mu        sync.RWMutex
	det       detector.Detector
	tracking  bool
	trackerOK bool
	stopCh    chan struct{}

	cmds     chan func(nowMs int64)
	snapshot atomic.Pointer[game.Snapshot]
}

// New creates the application. Hand-tracking initialization failure is
// not fatal: the game stays playable through injected punches and the
// condition is reported as information, not an error.
func New(config Config) *App {
	if config.MotionThresh <= 0 {
		config.MotionThresh = 1.0 // default: 1% pixel change
	}
	if config.Tuning == (game.Tuning{}) {
		config.Tuning = game.DefaultTuning()
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.CameraID),
		motion:   capture.NewMotionDetector(config.MotionThresh),
		engine:   game.NewEngine(config.Tuning, rand.New(rand.NewSource(time.Now().UnixNano()))),
		tracking: true,
		cmds:     make(chan func(nowMs int64), 16),
	}

	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.det = mp
		a.trackerOK = true
		log.Println("Using MediaPipe hand tracking")
	} else {
		log.Printf("Hand tracking unavailable (%v); rounds remain playable via manual punches", err)
		a.det = detector.NewMockDetector()
	}

	if config.Store != nil {
		a.engine.OnRoundEnd(a.persistRound)
		if raw, err := config.Store.Settings().Get(settingTracking); err == nil {
			if enabled, perr := strconv.ParseBool(raw); perr == nil {
				a.tracking = enabled
			}
		}
	}

	return a
}

// SetCamera replaces the camera implementation. Call before Start.
func (a *App) SetCamera(cam capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = cam
}

// SetDetector replaces the hand detector implementation, closing the
// previous one.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.det != nil {
		a.det.Close()
	}
	a.det = d
	a.trackerOK = true
}

func (a *App) detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.det
}

// TrackerAvailable reports whether a real hand tracker is running.
func (a *App) TrackerAvailable() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.trackerOK
}

// SetTracking enables or disables hand sampling. The game itself keeps
// running; with tracking off only injected punches land. The choice is
// persisted so it survives restarts.
func (a *App) SetTracking(enabled bool) {
	a.mu.Lock()
	a.tracking = enabled
	a.mu.Unlock()

	if a.config.Store != nil {
		if err := a.config.Store.Settings().Set(settingTracking, strconv.FormatBool(enabled)); err != nil {
			log.Printf("Failed to persist tracking setting: %v", err)
		}
	}
}

// IsTracking reports whether hand sampling is enabled.
func (a *App) IsTracking() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tracking
}

// Camera returns the camera instance, for the preview stream.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Snapshot returns the most recent render snapshot. Safe to call from
// any goroutine.
func (a *App) Snapshot() game.Snapshot {
	if snap := a.snapshot.Load(); snap != nil {
		return *snap
	}
	return game.Snapshot{}
}

// Tuning returns the engine tuning in effect.
func (a *App) Tuning() game.Tuning {
	return a.engine.Tuning()
}

// Start opens the camera and launches the update and sampler loops.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		// No camera means no tracking, but the game still runs.
		log.Printf("Camera unavailable (%v); rounds remain playable via manual punches", err)
	}

	a.stopCh = make(chan struct{})
	go a.runTicks(a.stopCh)
	go a.runSampler(a.stopCh)

	log.Println("Game loops started")
	return nil
}

// Stop halts both loops and releases capture resources. No game state
// mutates after Stop returns.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	if a.det != nil {
		if err := a.det.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Game loops stopped")
}

// StartRound begins a new round on the next tick.
func (a *App) StartRound() {
	a.enqueue(func(int64) { a.engine.StartRound() })
}

// EndRound finishes the running round on the next tick.
func (a *App) EndRound() {
	a.enqueue(func(int64) { a.engine.EndRound() })
}

// RestartRound resets and immediately starts a fresh round.
func (a *App) RestartRound() {
	a.enqueue(func(int64) { a.engine.RestartRound() })
}

// InjectPunch feeds a manual punch, the fallback for hosts without a
// working tracker (mouse/keyboard in the web client).
func (a *App) InjectPunch(screenX, screenY, speed float64) {
	if speed <= 0 {
		speed = a.engine.Tuning().VelocityThreshold
	}
	a.enqueue(func(nowMs int64) { a.engine.InjectPunch(screenX, screenY, speed, nowMs) })
}

// enqueue hands a control operation to the tick goroutine. The queue is
// bounded; an overflowing command is dropped with a log line rather than
// blocking the caller.
func (a *App) enqueue(cmd func(nowMs int64)) {
	select {
	case a.cmds <- cmd:
	default:
		log.Println("Control queue full, dropping command")
	}
}

// persistRound writes a finished round to the store. Runs on the tick
// goroutine via the engine's round-end callback.
func (a *App) persistRound(res game.RoundResult) {
	round := &store.Round{
		ID:              uuid.New().String(),
		Score:           res.Score,
		HighestCombo:    res.HighestCombo,
		NormalHits:      res.NormalHits,
		BonusHits:       res.BonusHits,
		DangerHits:      res.DangerHits,
		ExplosiveHits:   res.ExplosiveHits,
		Misses:          res.Misses,
		DurationSeconds: res.DurationSeconds,
	}
	if err := a.config.Store.Rounds().Create(round); err != nil {
		log.Printf("Failed to persist round: %v", err)
		return
	}
	log.Printf("Round finished: score=%d combo=%d hits=%d misses=%d",
		res.Score, res.HighestCombo, res.TotalHits(), res.Misses)
}
