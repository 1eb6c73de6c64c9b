package game

// Tuning holds every gameplay constant in one place so the config layer
// can override individual values without reaching into subsystems.
type Tuning struct {
	// Screen dimensions in pixels. Punch coordinates, camera projection,
	// and the collision fallback all use this pixel space.
	ScreenWidth  float64
	ScreenHeight float64
	FOVDegrees   float64

	// Punch detection.
	VelocityThreshold float64 // px/s of smoothed hand speed to register a punch
	SmoothingAlpha    float64 // weight of the previous velocity estimate
	PunchCooldownMs   int64   // per-hand debounce between punches

	// Round timing and difficulty ramp.
	RoundSeconds       float64
	BaseSpawnInterval  float64 // seconds between spawns at round start
	SpawnIntervalFloor float64 // spawn interval never drops below this
	SpawnRampPerSecond float64 // spawn interval shrink rate
	BaseGameSpeed      float64
	GameSpeedCeiling   float64
	SpeedRampPerSecond float64

	// Target pool and play volume.
	MaxTargets   int
	SpawnDepth   float64 // distance from the camera where targets appear
	NearPlane    float64 // depth at which an un-hit target counts as missed
	SpawnWindowX float64 // half-width of the spawn window
	SpawnWindowY float64 // half-height of the spawn window
	DriftSpeed   float64 // max lateral drift at spawn
	FallSpeed    float64 // base toward-viewer speed, scaled by game speed

	// Collision fallback.
	HitPixelRadius float64 // max screen distance for the projected fallback
	NearFieldDepth float64 // fallback only considers targets closer than this

	// Scoring.
	ComboTimeoutMs  int64
	VelocityCapMult float64 // velocity bonus factor is capped at this multiple

	// Particles.
	MaxParticles      int
	ParticleBaseBurst int
	ParticleMaxBurst  int
	ParticleSpread    float64 // base radial speed of burst particles
	ParticleDrag      float64 // per-tick velocity damping factor
	ParticleGravity   float64 // per-tick downward pull on non-flash particles
	ParticleDecayMin  float64 // per-tick life decay, randomized per particle
	ParticleDecayMax  float64
}

// DefaultTuning returns the tuning used by the shipped game. Values are
// calibrated for a 640x480 camera feed sampled every 80 ms.
func DefaultTuning() Tuning {
	return Tuning{
		ScreenWidth:  640,
		ScreenHeight: 480,
		FOVDegrees:   60,

		VelocityThreshold: 900,
		SmoothingAlpha:    0.6,
		PunchCooldownMs:   350,

		RoundSeconds:       60,
		BaseSpawnInterval:  2.0,
		SpawnIntervalFloor: 0.6,
		SpawnRampPerSecond: 0.03,
		BaseGameSpeed:      1.0,
		GameSpeedCeiling:   2.5,
		SpeedRampPerSecond: 0.025,

		MaxTargets:   12,
		SpawnDepth:   40,
		NearPlane:    2,
		SpawnWindowX: 12,
		SpawnWindowY: 7,
		DriftSpeed:   1.5,
		FallSpeed:    6,

		HitPixelRadius: 80,
		NearFieldDepth: 25,

		ComboTimeoutMs:  4000,
		VelocityCapMult: 2.0,

		MaxParticles:      256,
		ParticleBaseBurst: 12,
		ParticleMaxBurst:  24,
		ParticleSpread:    4,
		ParticleDrag:      0.92,
		ParticleGravity:   0.12,
		ParticleDecayMin:  0.02,
		ParticleDecayMax:  0.045,
	}
}
