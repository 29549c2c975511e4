package cfg

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version == "" {
		return "unknown"
	}
	return Version
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"contenthub" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"contenthub" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"contenthub" description:"Database name"`

	// Application configuration
	SourcesFile  string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file with RSS source definitions"`
	Port         string `long:"port" env:"PORT" default:"3001" description:"HTTP server port"`
	DailyHour    int    `long:"daily-hour" env:"DAILY_HOUR" default:"8" description:"Hour of day for the daily generation run (0-23)"`
	DailyMinute  int    `long:"daily-minute" env:"DAILY_MINUTE" default:"0" description:"Minute of hour for the daily generation run (0-59)"`
	ArticleCount int    `long:"article-count" env:"ARTICLE_COUNT" default:"10" description:"Number of top articles selected per daily run"`
	ScoreLimit   int    `long:"score-limit" env:"SCORE_LIMIT" default:"100" description:"Maximum pending articles scored per run"`

	// AI provider configuration
	AIProvider   string `long:"ai-provider" env:"AI_PROVIDER" default:"openai" choice:"openai" choice:"openrouter" choice:"glm" description:"Completion service provider"`
	APIKey       string `long:"api-key" env:"AI_API_KEY" description:"Completion service API key (required)" required:"true"`
	APIBase      string `long:"api-base" env:"AI_API_BASE" description:"Completion service base URL override"`
	FastModel    string `long:"fast-model" env:"AI_FAST_MODEL" description:"Model used for scoring and title generation"`
	QualityModel string `long:"quality-model" env:"AI_QUALITY_MODEL" description:"Model used for full rewrites"`

	// Rate limiting
	RateLimitMs int `long:"rate-limit-ms" env:"RATE_LIMIT_MS" default:"500" description:"Minimum interval between completion service calls in milliseconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"ContentHub/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Local" description:"Timezone for schedules (e.g., UTC, Asia/Shanghai)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:       raw.DBHost,
		DBPort:       raw.DBPort,
		DBUser:       raw.DBUser,
		DBPassword:   raw.DBPassword,
		DBName:       raw.DBName,
		SourcesFile:  raw.SourcesFile,
		Port:         raw.Port,
		DailyHour:    raw.DailyHour,
		DailyMinute:  raw.DailyMinute,
		ArticleCount: raw.ArticleCount,
		ScoreLimit:   raw.ScoreLimit,
		AIProvider:   raw.AIProvider,
		APIKey:       raw.APIKey,
		APIBase:      raw.APIBase,
		FastModel:    raw.FastModel,
		QualityModel: raw.QualityModel,
		RateLimitMs:  raw.RateLimitMs,
		UserAgent:    raw.UserAgent,
		Timezone:     raw.Timezone,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone == "" || timezone == "Local" {
		return nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc

	return nil
}
