package config

import (
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds the complete configuration for the service.
type Config struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`

	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`

	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     string `mapstructure:"redis_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	JWTSecret string `mapstructure:"jwt_secret"`

	Galaxy  GalaxyConfig  `mapstructure:"galaxy"`
	Balance BalanceConfig `mapstructure:"balance"`
}

// GalaxyConfig tunes the galaxy map view.
type GalaxyConfig struct {
	// ActivityWindowDays hides players whose last update is older.
	ActivityWindowDays int `mapstructure:"activity_window_days"`
	// HomeRange bounds random home coordinates to [-HomeRange, HomeRange].
	HomeRange int `mapstructure:"home_range"`
	// LeaderboardCacheSeconds is the Redis TTL for leaderboard pages.
	LeaderboardCacheSeconds int `mapstructure:"leaderboard_cache_seconds"`
	// InvadeRatePerMinute limits invasion requests per client IP.
	InvadeRatePerMinute int `mapstructure:"invade_rate_per_minute"`
}

// BalanceConfig names every combat tuning value. The defaults are the
// current balance pass, not final numbers.
type BalanceConfig struct {
	MinShipsRatio       float64 `mapstructure:"min_ships_ratio"`
	MinShipsBase        int     `mapstructure:"min_ships_base"`
	VictoryChanceFactor float64 `mapstructure:"victory_chance_factor"`
	VictoryChanceCap    float64 `mapstructure:"victory_chance_cap"`
	LootRatioFactor     float64 `mapstructure:"loot_ratio_factor"`
	LootRatioCap        float64 `mapstructure:"loot_ratio_cap"`

	// Loss ratio ranges, drawn uniformly per battle.
	AttackerWinLossMin  float64 `mapstructure:"attacker_win_loss_min"`
	AttackerWinLossMax  float64 `mapstructure:"attacker_win_loss_max"`
	AttackerLoseLossMin float64 `mapstructure:"attacker_lose_loss_min"`
	AttackerLoseLossMax float64 `mapstructure:"attacker_lose_loss_max"`
	DefenderWinLossMin  float64 `mapstructure:"defender_win_loss_min"`
	DefenderWinLossMax  float64 `mapstructure:"defender_win_loss_max"`
	DefenderLoseLossMin float64 `mapstructure:"defender_lose_loss_min"`
	DefenderLoseLossMax float64 `mapstructure:"defender_lose_loss_max"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "dominion")
	v.SetDefault("db_password", "dominion123")
	v.SetDefault("db_name", "dominion")

	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("jwt_secret", "your-secret-key-change-in-production")

	v.SetDefault("galaxy.activity_window_days", 7)
	v.SetDefault("galaxy.home_range", 10)
	v.SetDefault("galaxy.leaderboard_cache_seconds", 30)
	v.SetDefault("galaxy.invade_rate_per_minute", 30)

	v.SetDefault("balance.min_ships_ratio", 0.25)
	v.SetDefault("balance.min_ships_base", 2)
	v.SetDefault("balance.victory_chance_factor", 0.4)
	v.SetDefault("balance.victory_chance_cap", 0.9)
	v.SetDefault("balance.loot_ratio_factor", 0.25)
	v.SetDefault("balance.loot_ratio_cap", 0.5)

	v.SetDefault("balance.attacker_win_loss_min", 0.1)
	v.SetDefault("balance.attacker_win_loss_max", 0.3)
	v.SetDefault("balance.attacker_lose_loss_min", 0.3)
	v.SetDefault("balance.attacker_lose_loss_max", 0.7)
	v.SetDefault("balance.defender_win_loss_min", 0.3)
	v.SetDefault("balance.defender_win_loss_max", 0.6)
	v.SetDefault("balance.defender_lose_loss_min", 0.1)
	v.SetDefault("balance.defender_lose_loss_max", 0.3)
}

// Load reads configuration from an optional config.yaml plus
// DOMINION_* environment variables, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DOMINION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; anything else is a real error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// InitDB opens the Postgres connection that backs the player store.
func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// InitRedis builds the leaderboard cache client. Callers treat any
// Redis failure as a cache miss, so this never pings at startup.
func InitRedis(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
