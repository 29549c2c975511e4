package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	SourcesFile  string
	Port         string
	DailyHour    int
	DailyMinute  int
	ArticleCount int
	ScoreLimit   int

	// AI provider configuration
	AIProvider   string
	APIKey       string
	APIBase      string
	FastModel    string
	QualityModel string

	// Rate limiting
	RateLimitMs int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
