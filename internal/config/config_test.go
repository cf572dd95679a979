package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	cfg = nil
	v = nil
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
game:
  costs:
    farm: 7
    tower: 9
  towers:
    damage: 5
  rewards:
    win: 250
server:
  grpc_server:
    port: 8080
wallet:
  path: /tmp/sb-wallet.json
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	resetGlobals()
	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, 7, c.Game.Costs.Farm)
	assert.Equal(t, 9, c.Game.Costs.Tower)
	assert.Equal(t, 5, c.Game.Towers.Damage)
	assert.Equal(t, 250, c.Game.Rewards.Win)
	assert.Equal(t, 8080, c.Server.GRPCServer.Port)
	assert.Equal(t, "/tmp/sb-wallet.json", c.Wallet.Path)

	// Untouched keys keep their defaults
	assert.Equal(t, 6, c.Game.Costs.House)
	assert.Equal(t, configFile, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	resetGlobals()

	require.NoError(t, Init("/non/existent/path/config.yaml"))

	c := Get()
	assert.Equal(t, 16, c.Game.Grid.Width)
	assert.Equal(t, 10, c.Game.Grid.Height)
	assert.Equal(t, 10, c.Game.Economy.StartingCoins)
	assert.Equal(t, 3, c.Game.Economy.StartingUnitCap)
	assert.Equal(t, 2, c.Game.Economy.HouseCapBonus)
	assert.Equal(t, 2, c.Game.Economy.IncomeInterval)
	assert.Equal(t, 1, c.Game.Economy.IncomePerFarm)
	assert.Equal(t, CostsConfig{Farm: 6, House: 6, Barracks: 8, Tower: 8, Recruit: 5}, c.Game.Costs)
	assert.Equal(t, BuildingsConfig{KingHP: 100, BuildingHP: 30}, c.Game.Buildings)
	assert.Equal(t, UnitsConfig{HP: 10, Attack: 5, MoveRange: 3}, c.Game.Units)
	assert.Equal(t, TowersConfig{Range: 4, Damage: 4}, c.Game.Towers)
	assert.Equal(t, 3, c.Game.FogOfWar.VisibilityRadius)
	assert.Equal(t, 100, c.Game.Rewards.Win)
	assert.Equal(t, 50051, c.Server.GRPCServer.Port)
}

func TestInitRejectsMalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("game: [unclosed"), 0644))

	resetGlobals()
	assert.Error(t, Init(configFile))
}

func TestInitRejectsInvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("game:\n  grid:\n    width: 8\n"), 0644))

	resetGlobals()
	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestEnvironmentVariables(t *testing.T) {
	resetGlobals()

	t.Setenv("SB_GAME_COSTS_FARM", "3")
	t.Setenv("SB_SERVER_GRPC_SERVER_PORT", "9090")

	require.NoError(t, Init(""))

	c := Get()
	assert.Equal(t, 3, c.Game.Costs.Farm)
	assert.Equal(t, 9090, c.Server.GRPCServer.Port)
}

func TestSet(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init(""))

	require.NoError(t, Set("game.costs.recruit", 4))
	require.NoError(t, Set("development.show_all_tiles", true))

	c := Get()
	assert.Equal(t, 4, c.Game.Costs.Recruit)
	assert.True(t, c.Development.ShowAllTiles)
}

func TestGetHelpers(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init(""))

	require.NoError(t, Set("test.string", "hello"))
	require.NoError(t, Set("test.int", 42))
	require.NoError(t, Set("test.bool", true))

	assert.Equal(t, "hello", GetString("test.string"))
	assert.Equal(t, 42, GetInt("test.int"))
	assert.Equal(t, true, GetBool("test.bool"))
	assert.NotNil(t, GetViper())
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	baseContent := `
game:
  costs:
    barracks: 8
server:
  grpc_server:
    port: 50051
`
	require.NoError(t, os.WriteFile(baseConfig, []byte(baseContent), 0644))

	envConfig := filepath.Join(tmpDir, "config.prod.yaml")
	envContent := `
game:
  costs:
    barracks: 12
server:
  grpc_server:
    port: 8080
    log_level: "error"
`
	require.NoError(t, os.WriteFile(envConfig, []byte(envContent), 0644))

	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldWd) }()

	resetGlobals()
	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("prod"))

	c := Get()
	assert.Equal(t, 12, c.Game.Costs.Barracks)
	assert.Equal(t, 8080, c.Server.GRPCServer.Port)
	assert.Equal(t, "error", c.Server.GRPCServer.LogLevel)

	// Missing overlays are ignored
	assert.NoError(t, LoadEnvironmentConfig("staging"))
	assert.NoError(t, LoadEnvironmentConfig(""))
}

func TestValidate(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init(""))
	base := *Get()

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative cost", func(c *Config) { c.Game.Costs.Tower = -1 }},
		{"zero income interval", func(c *Config) { c.Game.Economy.IncomeInterval = 0 }},
		{"zero king hp", func(c *Config) { c.Game.Buildings.KingHP = 0 }},
		{"negative visibility", func(c *Config) { c.Game.FogOfWar.VisibilityRadius = -1 }},
		{"port out of range", func(c *Config) { c.Server.GRPCServer.Port = 70000 }},
		{"no games allowed", func(c *Config) { c.Server.GRPCServer.MaxGames = 0 }},
		{"negative http port", func(c *Config) { c.Server.GRPCServer.HTTPPort = -1 }},
		{"negative monitor interval", func(c *Config) { c.Server.GRPCServer.MonitorInterval = -5 }},
		{"zero goroutine alert", func(c *Config) { c.Server.GRPCServer.GoroutineAlert = 0 }},
		{"max grid below board", func(c *Config) { c.Server.GRPCServer.MaxGridWidth = 15 }},
		{"max grid height below board", func(c *Config) { c.Server.GRPCServer.MaxGridHeight = 9 }},
	}

	assert.NoError(t, Validate(&base))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			assert.Error(t, Validate(&c))
		})
	}
}
