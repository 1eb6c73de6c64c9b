package app

import (
	"log"
	"time"
)

// runTicks drives the game at a fixed cadence. Every tick drains queued
// control commands, advances the engine, and publishes a fresh snapshot
// for readers on other goroutines.
func (a *App) runTicks(stop <-chan struct{}) {
	ticker := time.NewTicker(TickIntervalMs * time.Millisecond)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			a.step(dt, now.UnixMilli())
		}
	}
}

// step runs one game update. A panic in the update is contained to the
// tick that raised it so a single bad frame cannot take the loops down.
func (a *App) step(dt float64, nowMs int64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from game tick panic: %v", r)
		}
	}()

	a.drainCommands(nowMs)
	a.engine.Tick(dt, nowMs)

	snap := a.engine.Snapshot()
	a.snapshot.Store(&snap)
}

// drainCommands runs every queued control operation on the tick
// goroutine, keeping all engine mutation single-threaded.
func (a *App) drainCommands(nowMs int64) {
	for {
		select {
		case cmd := <-a.cmds:
			cmd(nowMs)
		default:
			return
		}
	}
}
