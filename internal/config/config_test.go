package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 30*time.Second, cfg.Services.Timeout)
	assert.Equal(t, 5, cfg.Quiz.NumQuestions)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Empty(t, cfg.Services.ScoringURL)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`env: production
student:
  id: stu-42
  grade_band: "9-10"
services:
  scoring_url: https://api.example.com/score
  timeout: 10s
quiz:
  num_questions: 8
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "stu-42", cfg.Student.ID)
	assert.Equal(t, "9-10", cfg.Student.GradeBand)
	assert.Equal(t, "https://api.example.com/score", cfg.Services.ScoringURL)
	assert.Equal(t, 10*time.Second, cfg.Services.Timeout)
	assert.Equal(t, 8, cfg.Quiz.NumQuestions)
	// Unset sections keep their defaults.
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.InitialWait)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TUTORQUEST_STUDENT_ID", "env-student")
	t.Setenv("TUTORQUEST_SERVICES_SCORING_URL", "https://env.example.com/score")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "env-student", cfg.Student.ID)
	assert.Equal(t, "https://env.example.com/score", cfg.Services.ScoringURL)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("env: [unclosed"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
