package server

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeEnv(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultConfig()
	if cfg.Addr != def.Addr || cfg.TickHz != def.TickHz || cfg.Tunables != def.Tunables {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadConfigFileThenEnvironment(t *testing.T) {
	path := writeEnv(t, "ARENA_SPEED=7.5\nARENA_TICK_HZ=20\nARENA_GRAVITY_Y=-20\n# comment\nARENA_ADDR=:9000\n")
	t.Setenv(EnvTickHz, "45")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Tunables.Speed != 7.5 || cfg.Tunables.Gravity.Y() != -20 || cfg.Addr != ":9000" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.TickHz != 45 {
		t.Fatalf("tick=%d, environment must override the file", cfg.TickHz)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"not a number":  "ARENA_TICK_HZ=fast\n",
		"bad float":     "ARENA_JUMP_FORCE=high\n",
		"zero speed":    "ARENA_SPEED=0\n",
		"zero tick":     "ARENA_TICK_HZ=0\n",
		"no broadcasts": "ARENA_BROADCAST_EVERY=-1\n",
		"no players":    "ARENA_MIN_PLAYERS=0\n",
		"nan gravity":   "ARENA_GRAVITY_Y=NaN\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeEnv(t, body)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err=%v want ErrInvalidConfig", err)
			}
		})
	}
}

func TestSettingsPatchKeepsAbsentFields(t *testing.T) {
	s := Settings{Tunables: DefaultConfig().Tunables, BroadcastEvery: 2}
	g := -3.0
	got := SettingsPatch{GravityY: &g}.Apply(s)
	if got.Tunables.Gravity.Y() != -3 || got.Tunables.Gravity.X() != 0 {
		t.Fatalf("gravity=%v", got.Tunables.Gravity)
	}
	if got.Tunables.Speed != s.Tunables.Speed || got.BroadcastEvery != 2 {
		t.Fatalf("patch touched absent fields: %+v", got)
	}
}
