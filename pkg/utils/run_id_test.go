package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRunID(t *testing.T) {
	tests := []struct {
		scenario string
		prefix   string
	}{
		{"starter", "starter"},
		{"Starter Room", "starter-room"},
		{"  two_sources (hard) ", "two-sources-hard"},
		{"", "run"},
		{"***", "run"},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			id := GenerateRunID(tt.scenario)
			assert.Regexp(t, regexp.MustCompile("^"+tt.prefix+"-[0-9a-f]{8}$"), id)
		})
	}
}

func TestGenerateRunID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateRunID("starter"), GenerateRunID("starter"))
}
