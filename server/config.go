package server

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/joho/godotenv"

	"miniplatformer/physics"
)

// Environment keys read by LoadConfig.
const (
	EnvAddr           = "ARENA_ADDR"
	EnvLogFile        = "ARENA_LOG_FILE"
	EnvLogLevel       = "ARENA_LOG_LEVEL"
	EnvTickHz         = "ARENA_TICK_HZ"
	EnvBroadcastEvery = "ARENA_BROADCAST_EVERY"
	EnvMinPlayers     = "ARENA_MIN_PLAYERS"
	EnvSpeed          = "ARENA_SPEED"
	EnvJumpForce      = "ARENA_JUMP_FORCE"
	EnvGravityY       = "ARENA_GRAVITY_Y"
)

var ErrInvalidConfig = errors.New("invalid config")

// Level is the static geometry and spawn points shared by every room.
type Level struct {
	Statics []physics.AABB
	Spawns  []mgl64.Vec2
}

// DefaultLevel is a floor whose top is y=0 with two floating platforms.
func DefaultLevel() Level {
	return Level{
		Statics: []physics.AABB{
			physics.NewAABB(mgl64.Vec2{0, -5}, mgl64.Vec2{100, 10}),
			physics.NewAABB(mgl64.Vec2{-8, 3}, mgl64.Vec2{6, 1}),
			physics.NewAABB(mgl64.Vec2{8, 5}, mgl64.Vec2{6, 1}),
			physics.NewAABB(mgl64.Vec2{-50.5, 20}, mgl64.Vec2{1, 40}),
			physics.NewAABB(mgl64.Vec2{50.5, 20}, mgl64.Vec2{1, 40}),
		},
		Spawns: []mgl64.Vec2{{-4, 5}, {4, 5}, {-12, 5}, {12, 5}},
	}
}

type Config struct {
	Addr     string
	LogFile  string
	LogLevel string

	TickHz         int
	BroadcastEvery int // ticks between snapshots
	MinPlayers     int
	InboxSize      int

	Tunables physics.Tunables
	BodySize mgl64.Vec2
	Level    Level
}

func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		LogFile:        "app.log",
		LogLevel:       "info",
		TickHz:         30,
		BroadcastEvery: 2,
		MinPlayers:     2,
		InboxSize:      256,
		Tunables:       physics.DefaultTunables(),
		BodySize:       mgl64.Vec2{1, 1},
		Level:          DefaultLevel(),
	}
}

// LoadConfig starts from DefaultConfig, applies the .env file at path if it
// exists, then the process environment. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	vals := map[string]string{}
	if path != "" {
		m, err := godotenv.Read(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read %s: %w", path, err)
		default:
			vals = m
		}
	}
	for _, k := range []string{
		EnvAddr, EnvLogFile, EnvLogLevel, EnvTickHz, EnvBroadcastEvery,
		EnvMinPlayers, EnvSpeed, EnvJumpForce, EnvGravityY,
	} {
		if v, ok := os.LookupEnv(k); ok {
			vals[k] = v
		}
	}

	if err := cfg.apply(vals); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) apply(vals map[string]string) error {
	strs := map[string]*string{
		EnvAddr:     &c.Addr,
		EnvLogFile:  &c.LogFile,
		EnvLogLevel: &c.LogLevel,
	}
	for k, dst := range strs {
		if v, ok := vals[k]; ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		EnvTickHz:         &c.TickHz,
		EnvBroadcastEvery: &c.BroadcastEvery,
		EnvMinPlayers:     &c.MinPlayers,
	}
	for k, dst := range ints {
		v, ok := vals[k]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", k, v, ErrInvalidConfig)
		}
		*dst = n
	}

	floats := map[string]*float64{
		EnvSpeed:     &c.Tunables.Speed,
		EnvJumpForce: &c.Tunables.JumpForce,
		EnvGravityY:  &c.Tunables.Gravity[1],
	}
	for k, dst := range floats {
		v, ok := vals[k]
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", k, v, ErrInvalidConfig)
		}
		*dst = f
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.TickHz <= 0:
		return fmt.Errorf("tick rate %d: %w", c.TickHz, ErrInvalidConfig)
	case c.BroadcastEvery <= 0:
		return fmt.Errorf("broadcast every %d ticks: %w", c.BroadcastEvery, ErrInvalidConfig)
	case c.MinPlayers < 1:
		return fmt.Errorf("min players %d: %w", c.MinPlayers, ErrInvalidConfig)
	case c.BodySize.X() <= 0 || c.BodySize.Y() <= 0:
		return fmt.Errorf("body size %v: %w", c.BodySize, ErrInvalidConfig)
	case len(c.Level.Spawns) == 0:
		return fmt.Errorf("level has no spawn points: %w", ErrInvalidConfig)
	}
	return ValidateTunables(c.Tunables)
}

// ValidateTunables rejects values the integrator assumes never occur.
func ValidateTunables(t physics.Tunables) error {
	switch {
	case !finite(t.Speed) || t.Speed <= 0:
		return fmt.Errorf("speed %v: %w", t.Speed, ErrInvalidConfig)
	case !finite(t.JumpForce) || t.JumpForce <= 0:
		return fmt.Errorf("jump force %v: %w", t.JumpForce, ErrInvalidConfig)
	case !finiteVec(t.Gravity):
		return fmt.Errorf("gravity %v: %w", t.Gravity, ErrInvalidConfig)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVec(v mgl64.Vec2) bool {
	return finite(v.X()) && finite(v.Y())
}
