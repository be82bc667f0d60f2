package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Catalog  CatalogConfig
	Scoring  ScoringConfig
	Risk     RiskConfig
	Geodata  GeodataConfig
	Matcher  MatcherConfig
	Worker   WorkerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	ResultCacheTTL time.Duration
	StatusCacheTTL time.Duration
}

type CatalogConfig struct {
	CacheTTL          time.Duration
	MaxZones          int
	GenerationTimeout time.Duration
}

type ScoringConfig struct {
	BatchSize      int
	BatchPause     time.Duration
	MatchTimeout   time.Duration
	MaxRadiusMiles float64
	DwellCeilingS  int
	RetryAttempts  int
	RetryBackoff   time.Duration
}

type RiskConfig struct {
	HighTrafficDaily int
	MinDwellSeconds  int
	MinAudienceScore float64
	MinTemporalScore float64
	MaxAlternatives  int
}

type GeodataConfig struct {
	CandidatesURL  string
	PlacesURL      string
	PlacesAPIKey   string
	NearbyRadiusM  int
	RequestTimeout int // seconds
}

type MatcherConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout int // seconds
}

type WorkerConfig struct {
	Enabled         bool
	RefreshInterval time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			ResultCacheTTL: time.Duration(viper.GetInt("RESULT_CACHE_TTL")) * time.Second,
			StatusCacheTTL: time.Duration(viper.GetInt("STATUS_CACHE_TTL")) * time.Second,
		},
		Catalog: CatalogConfig{
			CacheTTL:          time.Duration(viper.GetInt("CATALOG_CACHE_TTL")) * time.Second,
			MaxZones:          viper.GetInt("CATALOG_MAX_ZONES"),
			GenerationTimeout: time.Duration(viper.GetInt("CATALOG_GENERATION_TIMEOUT")) * time.Second,
		},
		Scoring: ScoringConfig{
			BatchSize:      viper.GetInt("SCORING_BATCH_SIZE"),
			BatchPause:     time.Duration(viper.GetInt("SCORING_BATCH_PAUSE_MS")) * time.Millisecond,
			MatchTimeout:   time.Duration(viper.GetInt("SCORING_MATCH_TIMEOUT_MS")) * time.Millisecond,
			MaxRadiusMiles: viper.GetFloat64("SCORING_MAX_RADIUS_MILES"),
			DwellCeilingS:  viper.GetInt("SCORING_DWELL_CEILING_SECONDS"),
			RetryAttempts:  viper.GetInt("SCORING_RETRY_ATTEMPTS"),
			RetryBackoff:   time.Duration(viper.GetInt("SCORING_RETRY_BACKOFF_MS")) * time.Millisecond,
		},
		Risk: RiskConfig{
			HighTrafficDaily: viper.GetInt("RISK_HIGH_TRAFFIC_DAILY"),
			MinDwellSeconds:  viper.GetInt("RISK_MIN_DWELL_SECONDS"),
			MinAudienceScore: viper.GetFloat64("RISK_MIN_AUDIENCE_SCORE"),
			MinTemporalScore: viper.GetFloat64("RISK_MIN_TEMPORAL_SCORE"),
			MaxAlternatives:  viper.GetInt("RISK_MAX_ALTERNATIVES"),
		},
		Geodata: GeodataConfig{
			CandidatesURL:  viper.GetString("GEODATA_CANDIDATES_URL"),
			PlacesURL:      viper.GetString("GEODATA_PLACES_URL"),
			PlacesAPIKey:   viper.GetString("GEODATA_PLACES_API_KEY"),
			NearbyRadiusM:  viper.GetInt("GEODATA_NEARBY_RADIUS_M"),
			RequestTimeout: viper.GetInt("GEODATA_REQUEST_TIMEOUT"),
		},
		Matcher: MatcherConfig{
			BaseURL:        viper.GetString("MATCHER_BASE_URL"),
			APIKey:         viper.GetString("MATCHER_API_KEY"),
			RequestTimeout: viper.GetInt("MATCHER_REQUEST_TIMEOUT"),
		},
		Worker: WorkerConfig{
			Enabled:         viper.GetBool("WORKER_ENABLED"),
			RefreshInterval: time.Duration(viper.GetInt("WORKER_REFRESH_INTERVAL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Set default values if not provided
	if cfg.Cache.ResultCacheTTL == 0 {
		cfg.Cache.ResultCacheTTL = 30 * 24 * time.Hour
	}
	if cfg.Cache.StatusCacheTTL == 0 {
		cfg.Cache.StatusCacheTTL = 60 * time.Second
	}
	if cfg.Catalog.CacheTTL == 0 {
		cfg.Catalog.CacheTTL = 24 * time.Hour
	}
	if cfg.Catalog.MaxZones == 0 {
		cfg.Catalog.MaxZones = 30
	}
	if cfg.Catalog.GenerationTimeout == 0 {
		cfg.Catalog.GenerationTimeout = 60 * time.Second
	}
	if cfg.Scoring.BatchSize == 0 {
		cfg.Scoring.BatchSize = 5
	}
	if cfg.Scoring.BatchPause == 0 {
		cfg.Scoring.BatchPause = 200 * time.Millisecond
	}
	if cfg.Scoring.MatchTimeout == 0 {
		cfg.Scoring.MatchTimeout = 3 * time.Second
	}
	if cfg.Scoring.MaxRadiusMiles == 0 {
		cfg.Scoring.MaxRadiusMiles = 5.0
	}
	if cfg.Scoring.DwellCeilingS == 0 {
		cfg.Scoring.DwellCeilingS = 60
	}
	if cfg.Scoring.RetryAttempts == 0 {
		cfg.Scoring.RetryAttempts = 2
	}
	if cfg.Scoring.RetryBackoff == 0 {
		cfg.Scoring.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.Risk.HighTrafficDaily == 0 {
		cfg.Risk.HighTrafficDaily = 1000
	}
	if cfg.Risk.MinDwellSeconds == 0 {
		cfg.Risk.MinDwellSeconds = 20
	}
	if cfg.Risk.MinAudienceScore == 0 {
		cfg.Risk.MinAudienceScore = 24.0 // 60% of 40
	}
	if cfg.Risk.MinTemporalScore == 0 {
		cfg.Risk.MinTemporalScore = 15.0 // 50% of 30
	}
	if cfg.Risk.MaxAlternatives == 0 {
		cfg.Risk.MaxAlternatives = 3
	}
	if cfg.Geodata.NearbyRadiusM == 0 {
		cfg.Geodata.NearbyRadiusM = 100
	}
	if cfg.Geodata.RequestTimeout == 0 {
		cfg.Geodata.RequestTimeout = 30
	}
	if cfg.Matcher.RequestTimeout == 0 {
		cfg.Matcher.RequestTimeout = 10
	}
	if cfg.Worker.RefreshInterval == 0 {
		cfg.Worker.RefreshInterval = 6 * time.Hour
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
