package app

import (
	"log"
	"time"

	"github.com/ayusman/punchdrop/internal/detector"
	"github.com/ayusman/punchdrop/internal/game"
)

// runSampler is the slow half of the pipeline: grab a frame, check for
// motion, run hand tracking, and offer the batch to the engine. Sampling
// drops to a low cadence when the scene has been still, because pose
// inference on a static frame is wasted work.
func (a *App) runSampler(stop <-chan struct{}) {
	ticker := time.NewTicker(SampleIntervalMs * time.Millisecond)
	defer ticker.Stop()

	idle := false
	lastMotion := time.Now()
	var readErrs int

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			if !a.IsTracking() || !a.Snapshot().Active {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				readErrs++
				if readErrs == 1 || readErrs%100 == 0 {
					log.Printf("Frame read failed (%d so far): %v", readErrs, err)
				}
				continue
			}
			readErrs = 0

			moving, _ := a.motion.Detect(frame)
			if moving {
				lastMotion = now
				if idle {
					idle = false
					ticker.Reset(SampleIntervalMs * time.Millisecond)
				}
			} else if !idle && now.Sub(lastMotion) > IdleTimeoutMs*time.Millisecond {
				idle = true
				ticker.Reset(IdleSampleIntervalMs * time.Millisecond)
			}
			if idle {
				frame.Close()
				continue
			}

			hands, err := a.detector().Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Hand tracking failed: %v", err)
				continue
			}
			if len(hands) == 0 {
				continue
			}

			a.engine.OfferSamples(a.toSamples(hands, now.UnixMilli()))
		}
	}
}

// toSamples converts tracker landmarks into game hand samples. Landmarks
// are funneled through ToPixels so the engine always sees frame-pixel
// coordinates regardless of the tracker's convention.
func (a *App) toSamples(hands []detector.HandLandmarks, nowMs int64) []game.HandSample {
	tuning := a.engine.Tuning()
	samples := make([]game.HandSample, 0, len(hands))
	for i := range hands {
		px := hands[i].ToPixels(tuning.ScreenWidth, tuning.ScreenHeight)

		hand := game.HandRight
		if px.Handedness == "Left" {
			hand = game.HandLeft
		}

		sample := game.HandSample{
			Hand:        hand,
			TimestampMs: nowMs,
			Keypoints: map[string]game.Keypoint{
				game.KeypointIndexTip: {
					X:          px.Points[detector.IndexTip].X,
					Y:          px.Points[detector.IndexTip].Y,
					Confidence: px.Score,
				},
				game.KeypointWrist: {
					X:          px.Points[detector.Wrist].X,
					Y:          px.Points[detector.Wrist].Y,
					Confidence: px.Score,
				},
			},
		}
		samples = append(samples, sample)
	}
	return samples
}
