package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio. The scoring weights are
// tuning knobs, not structural constants, so they live here.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionIdleTTLMinutes int `env:"SESSION_IDLE_TTL_MINUTES" envDefault:"60"`
	DefaultMaxQuestions   int `env:"DEFAULT_MAX_QUESTIONS" envDefault:"30"`

	TraitRankWeights         []float64 `env:"TRAIT_RANK_WEIGHTS" envDefault:"5,4,3,2,1"`
	ConfidenceGapWeight      float64   `env:"CONFIDENCE_GAP_WEIGHT" envDefault:"0.7"`
	ConfidenceQuestionWeight float64   `env:"CONFIDENCE_QUESTION_WEIGHT" envDefault:"0.3"`

	// File catalogs for the CLI and database-less setups.
	QuestionCatalogPath string `env:"QUESTION_CATALOG_PATH"`
	CourseCatalogPath   string `env:"COURSE_CATALOG_PATH"`
	TraitAliasPath      string `env:"TRAIT_ALIAS_PATH"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
