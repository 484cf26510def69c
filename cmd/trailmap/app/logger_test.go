package app

import "testing"

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"nothing set", Config{}, "info"},
		{"verbose", Config{Verbose: true}, "debug"},
		{"quiet", Config{Quiet: true}, "warn"},
		{"quiet beats verbose", Config{Verbose: true, Quiet: true}, "warn"},
		{"log-level beats verbose", Config{LogLevel: "error", Verbose: true}, "error"},
		{"log-level beats quiet", Config{LogLevel: "trace", Quiet: true}, "trace"},
		{"unknown log-level", Config{LogLevel: "loud"}, "info"},
		{"LOG_LEVEL alone", Config{EnvLogLevel: "error"}, "error"},
		{"verbose beats LOG_LEVEL", Config{Verbose: true, EnvLogLevel: "error"}, "debug"},
		{"unknown LOG_LEVEL", Config{EnvLogLevel: "chatty"}, "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determineLogLevel(&tt.config); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(&Config{Quiet: true, LogFormat: "json", LogOutput: "stderr"})
	if got := logger.GetLevel().String(); got != "warn" {
		t.Errorf("level = %s, want warn", got)
	}
}
