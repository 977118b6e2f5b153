package game

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"racer/internal/geom"
	"racer/internal/race"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// SoundKind identifies a one-shot effect.
type SoundKind int

const (
	SoundStart SoundKind = iota
	SoundCheckpoint
	SoundLap
	SoundBestLap
	SoundCrash
	SoundPause
	SoundFinish
)

// AudioSystem owns the oto context and the looping engine player.
type AudioSystem struct {
	ctx          *oto.Context
	ready        chan struct{}
	engine       *engineReader
	enginePlayer oto.Player
}

var globalAudio *AudioSystem

var sfxVolume float64 = 0.55
var engineVolume float64 = 0.18

// InitAudio initializes the audio system.
func InitAudio() error {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return err
	}
	globalAudio = &AudioSystem{ctx: ctx, ready: ready, engine: &engineReader{}}
	return nil
}

func audioReady() bool {
	if globalAudio == nil {
		return false
	}
	select {
	case <-globalAudio.ready:
		return true
	default:
		return false
	}
}

// PlaySound plays a procedurally generated sound effect.
func PlaySound(kind SoundKind) {
	if !audioReady() {
		return
	}
	samples := generateSound(kind)
	if len(samples) == 0 {
		return
	}
	go func() {
		reader := &soundReader{data: samples}
		player := globalAudio.ctx.NewPlayer(reader)
		player.SetVolume(sfxVolume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

// StartEngine begins the looping engine note.
func StartEngine() {
	if !audioReady() || globalAudio.enginePlayer != nil {
		return
	}
	player := globalAudio.ctx.NewPlayer(globalAudio.engine)
	player.SetVolume(engineVolume)
	globalAudio.enginePlayer = player
	player.Play()
}

// SetEngine feeds the engine note; rev is 0..1 of top speed, silent mutes it.
func SetEngine(rev float64, throttle, silent bool) {
	if globalAudio == nil {
		return
	}
	globalAudio.engine.set(rev, throttle, silent)
}

// AttachAudio maps race events to effects.
func AttachAudio(bus *race.EventBus) {
	var lastCrash time.Duration = -time.Hour
	bus.Subscribe(race.EventStarted, func(race.Event) { PlaySound(SoundStart) })
	bus.Subscribe(race.EventRestarted, func(race.Event) { PlaySound(SoundStart) })
	bus.Subscribe(race.EventCheckpoint, func(race.Event) { PlaySound(SoundCheckpoint) })
	bus.Subscribe(race.EventLapStarted, func(race.Event) { PlaySound(SoundLap) })
	bus.Subscribe(race.EventLapCompleted, func(e race.Event) {
		if e.NewBest {
			PlaySound(SoundBestLap)
			return
		}
		PlaySound(SoundLap)
	})
	bus.Subscribe(race.EventCollision, func(e race.Event) {
		if e.At-lastCrash < time.Duration(CrashCooldown*float64(time.Second)) {
			return
		}
		lastCrash = e.At
		PlaySound(SoundCrash)
	})
	bus.Subscribe(race.EventPaused, func(race.Event) { PlaySound(SoundPause) })
	bus.Subscribe(race.EventFinished, func(race.Event) { PlaySound(SoundFinish) })
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

// softSat applies gentle tanh-like saturation.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/(x)
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns an FM-synthesized sample.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

// makeBuf allocates a stereo float32 buffer for n samples.
func makeBuf(n int) []byte { return make([]byte, n*8) }

// ---- Sound effects -------------------------------------------------------

func generateSound(kind SoundKind) []byte {
	switch kind {
	case SoundStart:
		return genBeeps([]float64{660, 660, 990}, 0.12, 0.08)
	case SoundCheckpoint:
		return genTick()
	case SoundLap:
		return genBeeps([]float64{880, 1320}, 0.09, 0.02)
	case SoundBestLap:
		return genBeeps([]float64{784, 988, 1175, 1568}, 0.08, 0.01)
	case SoundCrash:
		return genCrash()
	case SoundPause:
		return genBeeps([]float64{440}, 0.08, 0)
	case SoundFinish:
		return genBeeps([]float64{523, 659, 784, 1047, 784, 1047}, 0.14, 0.02)
	}
	return nil
}

// genBeeps plays FM bell notes one after another.
func genBeeps(freqs []float64, note, gap float64) []byte {
	per := int((note + gap) * SampleRate)
	on := int(note * SampleRate)
	buf := makeBuf(per * len(freqs))
	for k, f := range freqs {
		for i := 0; i < on; i++ {
			t := float64(i) / SampleRate
			env := adsr(float64(i)/float64(on), 0.02, 0.3, 0.5, 0.3)
			putStereoF32(buf, k*per+i, softSat(0.6*env*fm(t, f, 2.0, 1.2*env)))
		}
	}
	return buf
}

// genTick: short high click for a gate.
func genTick() []byte {
	n := int(0.04 * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		env := math.Exp(-t * 90)
		putStereoF32(buf, i, 0.35*env*math.Sin(2*math.Pi*2400*t))
	}
	return buf
}

// genCrash: low thump with a burst of filtered noise.
func genCrash() []byte {
	n := int(0.3 * SampleRate)
	buf := makeBuf(n)
	seed := uint64(0xC4A5)
	lp := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		thump := math.Sin(2*math.Pi*(70-40*t)*t) * math.Exp(-t*14)
		lp += 0.25 * (lcg(&seed) - lp)
		noise := lp * math.Exp(-t*22)
		putStereoF32(buf, i, softSat(0.9*thump+0.7*noise))
	}
	return buf
}

// ---- Engine loop ---------------------------------------------------------

// engineReader synthesises the engine note forever. The frame loop writes
// the target through atomics; oto reads on its own goroutine.
type engineReader struct {
	target atomic.Uint64 // float64 bits: 0..1 rev
	load   atomic.Bool
	mute   atomic.Bool

	rev   float64
	gain  float64
	phase float64
	seed  uint64
}

func (e *engineReader) set(rev float64, throttle, silent bool) {
	if math.IsNaN(rev) {
		rev = 0
	}
	e.target.Store(math.Float64bits(geom.Clamp(rev, 0, 1)))
	e.load.Store(throttle)
	e.mute.Store(silent)
}

func (e *engineReader) Read(p []byte) (int, error) {
	samples := len(p) / 8
	target := math.Float64frombits(e.target.Load())
	wantGain := 0.55
	if e.load.Load() {
		wantGain = 1
	}
	if e.mute.Load() {
		wantGain = 0
	}
	for i := 0; i < samples; i++ {
		e.rev += (target - e.rev) * 0.0005
		e.gain += (wantGain - e.gain) * 0.001
		freq := EngineIdleHz + (EngineTopHz-EngineIdleHz)*e.rev
		e.phase += 2 * math.Pi * freq / SampleRate
		if e.phase > 2*math.Pi {
			e.phase -= 2 * math.Pi
		}
		s := math.Sin(e.phase) + 0.5*math.Sin(2*e.phase) + 0.25*math.Sin(3*e.phase)
		s += 0.08 * lcg(&e.seed)
		putStereoF32(p, i, softSat(0.45*e.gain*s))
	}
	return samples * 8, nil
}
