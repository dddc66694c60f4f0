package ciutil

import (
	"log/slog"
	"os"

	"github.com/phrazzld/task-manager-api/internal/redact"
)

// Environment variables consulted by tests and CI detection.
const (
	// CI environment detection variables
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"

	// Test service URLs. EnvTestDBURL is preferred over the generic EnvDatabaseURL.
	EnvDatabaseURL  = "DATABASE_URL"
	EnvTestDBURL    = "TASKMGR_TEST_DB_URL"
	EnvTestRedisURL = "TASKMGR_TEST_REDIS_URL"
)

// IsCI reports whether the process runs under a known CI provider.
func IsCI() bool {
	for _, name := range []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvCircleCI} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// GetEnvWithFallbacks returns the first non-empty variable among envVars, or
// defaultValue. Using any but the first name logs a warning with the value
// redacted.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, envVar := range envVars {
		if val := os.Getenv(envVar); val != "" {
			if i > 0 && logger != nil {
				logger.Warn("Using fallback environment variable",
					"used_var", envVar,
					"preferred_var", envVars[0],
					"value", redact.String(val),
				)
			}
			return val
		}
	}
	return defaultValue
}

// GetTestDatabaseURL returns the Postgres URL for integration tests, or "".
func GetTestDatabaseURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks([]string{EnvTestDBURL, EnvDatabaseURL}, "", logger)
}

// GetTestRedisURL returns the Redis URL for integration tests, or "".
func GetTestRedisURL() string {
	return os.Getenv(EnvTestRedisURL)
}
