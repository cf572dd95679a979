package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	Wallet      WalletConfig      `mapstructure:"wallet"`
	Server      ServerConfig      `mapstructure:"server"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// GameConfig holds game rules and balance values
type GameConfig struct {
	Grid      GridConfig      `mapstructure:"grid"`
	Economy   EconomyConfig   `mapstructure:"economy"`
	Costs     CostsConfig     `mapstructure:"costs"`
	Buildings BuildingsConfig `mapstructure:"buildings"`
	Units     UnitsConfig     `mapstructure:"units"`
	Towers    TowersConfig    `mapstructure:"towers"`
	FogOfWar  FogOfWarConfig  `mapstructure:"fog_of_war"`
	Rewards   RewardsConfig   `mapstructure:"rewards"`
}

// GridConfig holds board dimensions
type GridConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// EconomyConfig holds coin and unit cap settings
type EconomyConfig struct {
	StartingCoins   int `mapstructure:"starting_coins"`
	StartingUnitCap int `mapstructure:"starting_unit_cap"`
	HouseCapBonus   int `mapstructure:"house_cap_bonus"`
	IncomeInterval  int `mapstructure:"income_interval"`
	IncomePerFarm   int `mapstructure:"income_per_farm"`
}

// CostsConfig holds coin prices
type CostsConfig struct {
	Farm     int `mapstructure:"farm"`
	House    int `mapstructure:"house"`
	Barracks int `mapstructure:"barracks"`
	Tower    int `mapstructure:"tower"`
	Recruit  int `mapstructure:"recruit"`
}

// BuildingsConfig holds starting hit points for structures
type BuildingsConfig struct {
	KingHP     int `mapstructure:"king_hp"`
	BuildingHP int `mapstructure:"building_hp"`
}

// UnitsConfig holds the soldier profile
type UnitsConfig struct {
	HP        int `mapstructure:"hp"`
	Attack    int `mapstructure:"attack"`
	MoveRange int `mapstructure:"move_range"`
}

// TowersConfig holds tower combat settings
type TowersConfig struct {
	Range  int `mapstructure:"range"`
	Damage int `mapstructure:"damage"`
}

// FogOfWarConfig holds fog of war settings
type FogOfWarConfig struct {
	VisibilityRadius int `mapstructure:"visibility_radius"`
}

// RewardsConfig holds currency rewards
type RewardsConfig struct {
	// Win is credited to the wallet on victory; zero disables the reward
	Win int `mapstructure:"win"`
}

// WalletConfig holds currency persistence settings
type WalletConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	GameServer GameServerConfig `mapstructure:"game_server"`
	GRPCServer GRPCServerConfig `mapstructure:"grpc_server"`
}

// GameServerConfig holds settings for the headless demo binary
type GameServerConfig struct {
	LogLevel  string     `mapstructure:"log_level"`
	LogFormat string     `mapstructure:"log_format"`
	Demo      DemoConfig `mapstructure:"demo"`
}

// DemoConfig holds demo mode configuration
type DemoConfig struct {
	MaxTurns int `mapstructure:"max_turns"`
}

// GRPCServerConfig holds gRPC server configuration
type GRPCServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	HTTPPort              int    `mapstructure:"http_port"`
	LogLevel              string `mapstructure:"log_level"`
	// TurnTimeout bounds each request in milliseconds; zero means no deadline
	TurnTimeout           int    `mapstructure:"turn_timeout"`
	MaxGames              int    `mapstructure:"max_games"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
	CleanupInterval       int    `mapstructure:"cleanup_interval"`
	FinishedGameTTL       int    `mapstructure:"finished_game_ttl"`
	IdleGameTimeout       int    `mapstructure:"idle_game_timeout"`
	MonitorInterval       int    `mapstructure:"monitor_interval"`
	GoroutineAlert        int    `mapstructure:"goroutine_alert_threshold"`
	MaxGridWidth          int    `mapstructure:"max_grid_width"`
	MaxGridHeight         int    `mapstructure:"max_grid_height"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging bool `mapstructure:"verbose_logging"`
	ShowAllTiles   bool `mapstructure:"show_all_tiles"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Board
	v.SetDefault("game.grid.width", 16)
	v.SetDefault("game.grid.height", 10)

	// Economy
	v.SetDefault("game.economy.starting_coins", 10)
	v.SetDefault("game.economy.starting_unit_cap", 3)
	v.SetDefault("game.economy.house_cap_bonus", 2)
	v.SetDefault("game.economy.income_interval", 2)
	v.SetDefault("game.economy.income_per_farm", 1)

	// Prices
	v.SetDefault("game.costs.farm", 6)
	v.SetDefault("game.costs.house", 6)
	v.SetDefault("game.costs.barracks", 8)
	v.SetDefault("game.costs.tower", 8)
	v.SetDefault("game.costs.recruit", 5)

	// Entities
	v.SetDefault("game.buildings.king_hp", 100)
	v.SetDefault("game.buildings.building_hp", 30)
	v.SetDefault("game.units.hp", 10)
	v.SetDefault("game.units.attack", 5)
	v.SetDefault("game.units.move_range", 3)
	v.SetDefault("game.towers.range", 4)
	v.SetDefault("game.towers.damage", 4)

	v.SetDefault("game.fog_of_war.visibility_radius", 3)
	v.SetDefault("game.rewards.win", 100)

	v.SetDefault("wallet.path", "wallet.json")

	// Server defaults
	v.SetDefault("server.game_server.log_level", "info")
	v.SetDefault("server.game_server.log_format", "console")
	v.SetDefault("server.game_server.demo.max_turns", 40)

	// gRPC server defaults
	v.SetDefault("server.grpc_server.host", "0.0.0.0")
	v.SetDefault("server.grpc_server.port", 50051)
	v.SetDefault("server.grpc_server.http_port", 8080)
	v.SetDefault("server.grpc_server.log_level", "info")
	v.SetDefault("server.grpc_server.turn_timeout", 0)
	v.SetDefault("server.grpc_server.max_games", 100)
	v.SetDefault("server.grpc_server.enable_reflection", true)
	v.SetDefault("server.grpc_server.graceful_shutdown_delay", 5)
	v.SetDefault("server.grpc_server.cleanup_interval", 300)
	v.SetDefault("server.grpc_server.finished_game_ttl", 600)
	v.SetDefault("server.grpc_server.idle_game_timeout", 3600)
	v.SetDefault("server.grpc_server.monitor_interval", 30)
	v.SetDefault("server.grpc_server.goroutine_alert_threshold", 1000)
	v.SetDefault("server.grpc_server.max_grid_width", 64)
	v.SetDefault("server.grpc_server.max_grid_height", 64)

	// Development defaults
	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.show_all_tiles", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/solarbloom")
	}

	// SB_GAME_COSTS_FARM overrides game.costs.farm
	v.SetEnvPrefix("SB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing file falls back to defaults; a malformed one is an error
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return fmt.Errorf("error reading config file: %w", err)
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		// Initialize with defaults if not already initialized
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded configuration
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil && !isNotFound(err) {
		return fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) error {
	v.Set(key, value)
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config after setting %s: %w", key, err)
	}
	return nil
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. Changes that fail
// validation are reported through onError and the previous values are kept.
func WatchConfig(onChange func(), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			if onError != nil {
				onError(fmt.Errorf("reloading %s: %w", e.Name, err))
			}
			return
		}
		if err := Validate(next); err != nil {
			if onError != nil {
				onError(fmt.Errorf("reloading %s: %w", e.Name, err))
			}
			return
		}
		*cfg = *next
		if onChange != nil {
			onChange()
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	g := c.Game

	// The bootstrap layout needs room for both bases
	if g.Grid.Width < 12 || g.Grid.Height < 5 {
		return fmt.Errorf("game.grid must be at least 12x5, got %dx%d", g.Grid.Width, g.Grid.Height)
	}

	if g.Economy.StartingCoins < 0 {
		return fmt.Errorf("game.economy.starting_coins must be non-negative")
	}
	if g.Economy.StartingUnitCap < 0 {
		return fmt.Errorf("game.economy.starting_unit_cap must be non-negative")
	}
	if g.Economy.HouseCapBonus < 0 {
		return fmt.Errorf("game.economy.house_cap_bonus must be non-negative")
	}
	if g.Economy.IncomeInterval <= 0 {
		return fmt.Errorf("game.economy.income_interval must be positive")
	}
	if g.Economy.IncomePerFarm < 0 {
		return fmt.Errorf("game.economy.income_per_farm must be non-negative")
	}

	costs := map[string]int{
		"farm":     g.Costs.Farm,
		"house":    g.Costs.House,
		"barracks": g.Costs.Barracks,
		"tower":    g.Costs.Tower,
		"recruit":  g.Costs.Recruit,
	}
	for name, cost := range costs {
		if cost < 0 {
			return fmt.Errorf("game.costs.%s must be non-negative", name)
		}
	}

	if g.Buildings.KingHP <= 0 || g.Buildings.BuildingHP <= 0 {
		return fmt.Errorf("game.buildings hit points must be positive")
	}
	if g.Units.HP <= 0 {
		return fmt.Errorf("game.units.hp must be positive")
	}
	if g.Units.Attack < 0 || g.Units.MoveRange < 0 {
		return fmt.Errorf("game.units attack and move_range must be non-negative")
	}
	if g.Towers.Range < 0 || g.Towers.Damage < 0 {
		return fmt.Errorf("game.towers range and damage must be non-negative")
	}
	if g.FogOfWar.VisibilityRadius < 0 {
		return fmt.Errorf("game.fog_of_war.visibility_radius must be non-negative")
	}
	if g.Rewards.Win < 0 {
		return fmt.Errorf("game.rewards.win must be non-negative")
	}

	// Validate server configuration
	if c.Server.GRPCServer.Port <= 0 || c.Server.GRPCServer.Port > 65535 {
		return fmt.Errorf("server.grpc_server.port must be between 1 and 65535")
	}
	if c.Server.GRPCServer.HTTPPort < 0 || c.Server.GRPCServer.HTTPPort > 65535 {
		return fmt.Errorf("server.grpc_server.http_port must be between 0 and 65535")
	}
	if c.Server.GRPCServer.MonitorInterval < 0 {
		return fmt.Errorf("server.grpc_server.monitor_interval must be non-negative")
	}
	if c.Server.GRPCServer.GoroutineAlert <= 0 {
		return fmt.Errorf("server.grpc_server.goroutine_alert_threshold must be positive")
	}
	if c.Server.GRPCServer.MaxGridWidth < g.Grid.Width || c.Server.GRPCServer.MaxGridHeight < g.Grid.Height {
		return fmt.Errorf("server.grpc_server.max_grid_width/max_grid_height must be at least game.grid (%dx%d)",
			g.Grid.Width, g.Grid.Height)
	}
	if c.Server.GRPCServer.MaxGames <= 0 {
		return fmt.Errorf("server.grpc_server.max_games must be positive")
	}
	if c.Server.GRPCServer.TurnTimeout < 0 {
		return fmt.Errorf("server.grpc_server.turn_timeout must be non-negative")
	}
	if c.Server.GRPCServer.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.grpc_server.graceful_shutdown_delay must be non-negative")
	}
	if c.Server.GRPCServer.CleanupInterval <= 0 {
		return fmt.Errorf("server.grpc_server.cleanup_interval must be positive")
	}
	if c.Server.GameServer.Demo.MaxTurns <= 0 {
		return fmt.Errorf("server.game_server.demo.max_turns must be positive")
	}

	return nil
}
