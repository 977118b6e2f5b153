package game

// Window defaults; config overrides the size.
const (
	WindowTitle  = "Racer"
	WindowWidth  = 1280
	WindowHeight = 720
)

// Follow camera.
const (
	CameraHeight   = 3.0
	CameraDistance = 6.0
	CameraLookAt   = 8.0  // metres ahead of the car
	CameraLerp     = 0.05 // fraction of the gap closed per frame
	CameraFOV      = 75.0 // degrees
	CameraNear     = 0.1
	CameraFar      = 1500.0
)

// Scenery.
const (
	TreeCount        = 150
	TreeSpread       = 400.0
	TreeClearance    = 15.0
	MountainCount    = 24
	MountainDistance = 450.0
	GroundMargin     = 600.0
)

// HUD layout in framebuffer pixels.
const (
	HUDMargin    = 24.0
	HUDDigitSize = 36.0
	HUDSmallSize = 20.0
	HUDSpeedSize = 64.0
)

// Audio.
const (
	EngineIdleHz  = 55.0
	EngineTopHz   = 220.0
	CrashCooldown = 0.25 // seconds between barrier sounds
)
