package testdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScripts(t *testing.T) {
	scripts, err := LoadScripts()
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	for _, s := range scripts {
		assert.NotEmpty(t, s.Steps, s.File)
	}
}

func TestScript_Validate(t *testing.T) {
	tests := []struct {
		name    string
		script  Script
		wantErr bool
	}{
		{"ok", Script{Name: "x", Window: 1, Threshold: 1, Steps: []Step{{Hand: "A", Frames: 1}, {Edit: "clear"}}}, false},
		{"missing name", Script{Window: 1, Threshold: 1}, true},
		{"zero frames", Script{Name: "x", Window: 1, Threshold: 1, Steps: []Step{{Hand: "A"}}}, true},
		{"edit with frames", Script{Name: "x", Window: 1, Threshold: 1, Steps: []Step{{Edit: "clear", Frames: 2}}}, true},
		{"unknown letter", Script{Name: "x", Window: 1, Threshold: 1, Steps: []Step{{Hand: "J", Frames: 1}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.script.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
