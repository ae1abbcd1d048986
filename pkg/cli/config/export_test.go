package config

import "time"

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewGraphQLForTest creates a GraphQL config for testing purposes
func NewGraphQLForTest(endpoint, token string, timeout time.Duration) *GraphQL {
	return &GraphQL{
		endpoint: endpoint,
		token:    token,
		timeout:  timeout,
	}
}

// NewPanelForTest creates a Panel config for testing purposes
func NewPanelForTest(path string) *Panel {
	return &Panel{path: path}
}
