// Package config loads application configuration from an optional YAML
// file and TUTORQUEST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Env      string   `mapstructure:"env"`      // current environment (local, production)
	Student  Student  `mapstructure:"student"`  // identity sent with remote requests
	Services Services `mapstructure:"services"` // remote service endpoints
	Chapter  Chapter  `mapstructure:"chapter"`  // chapter the quizzes are generated for
	Quiz     Quiz     `mapstructure:"quiz"`     // quiz generation parameters
	Retry    Retry    `mapstructure:"retry"`    // remote call retry policy
}

// Student identifies the learner to the remote services.
type Student struct {
	ID        string `mapstructure:"id"`
	GradeBand string `mapstructure:"grade_band"`
	SubjectID string `mapstructure:"subject_id"`
}

// Services contains the remote endpoint configuration. Empty URLs are
// valid: scoring falls back to the local path and generation yields no
// tiers.
type Services struct {
	ScoringURL    string        `mapstructure:"scoring_url"`
	GenerationURL string        `mapstructure:"generation_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// Chapter selects the study material quizzes are generated from.
type Chapter struct {
	ID      string `mapstructure:"id"`
	Summary string `mapstructure:"summary"`
}

// Quiz contains quiz generation parameters.
type Quiz struct {
	NumQuestions int `mapstructure:"num_questions"`
}

// Retry configures backoff for remote calls.
type Retry struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
}

// Load reads configuration from config.yaml (searched in the working
// directory and searchDirs) and the environment.
func Load(searchDirs ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	for _, dir := range searchDirs {
		v.AddConfigPath(dir)
	}

	v.SetDefault("env", "local")
	v.SetDefault("student.id", "local-student")
	v.SetDefault("student.grade_band", "6-8")
	v.SetDefault("student.subject_id", "math")
	v.SetDefault("services.scoring_url", "")
	v.SetDefault("services.generation_url", "")
	v.SetDefault("services.timeout", "30s")
	v.SetDefault("chapter.id", "fractions-1")
	v.SetDefault("chapter.summary", "Introduction to fractions")
	v.SetDefault("quiz.num_questions", 5)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_wait", "500ms")
	v.SetDefault("retry.max_wait", "5s")

	v.SetEnvPrefix("TUTORQUEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}
