package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, "Converted", cfg.OutputDirName)
	assert.Equal(t, "aac", cfg.AudioEncoder)
	assert.Equal(t, "256k", cfg.AudioBitrate)
	assert.Equal(t, RuleTZData, cfg.DSTRule)
	assert.Equal(t, ColorAuto, cfg.ColorMode)
	assert.True(t, cfg.ShowProgress)
	assert.True(t, cfg.SkipExisting)
}

func TestDefaults_EnvOverride(t *testing.T) {
	t.Setenv("CLIPSHRINK_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("CLIPSHRINK_AUDIO_BITRATE", "192k")

	cfg := Defaults()

	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "192k", cfg.AudioBitrate)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with input dir", func(c *Config) { c.InputDir = "/videos" }, ""},
		{"missing input dir", func(c *Config) {}, "input_dir"},
		{"check only skips input dir", func(c *Config) { c.CheckOnly = true }, ""},
		{"bad dst rule", func(c *Config) { c.InputDir = "/v"; c.DSTRule = "lunar" }, "DST rule"},
		{"bad color mode", func(c *Config) { c.InputDir = "/v"; c.ColorMode = "maybe" }, "color mode"},
		{"empty ffmpeg path", func(c *Config) { c.InputDir = "/v"; c.FFmpegPath = "" }, "ffmpeg"},
		{"bad bitrate", func(c *Config) { c.InputDir = "/v"; c.AudioBitrate = "loud" }, "audio bitrate"},
		{"zero bitrate", func(c *Config) { c.InputDir = "/v"; c.AudioBitrate = "0k" }, "audio bitrate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_NormalizesBitrate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"256", "256k"},
		{"256k", "256k"},
		{"256K", "256k"},
		{"256kbps", "256k"},
		{" 192 k ", "192k"},
	}

	for _, tt := range tests {
		cfg := Defaults()
		cfg.InputDir = "/videos"
		cfg.AudioBitrate = tt.in
		require.NoError(t, cfg.Validate(), "bitrate %q", tt.in)
		assert.Equal(t, tt.want, cfg.AudioBitrate)
	}
}

func TestNormalizeDirArg(t *testing.T) {
	assert.Equal(t, "/videos", NormalizeDirArg("/videos/"))
	assert.Equal(t, "/videos", NormalizeDirArg("/videos"))
	assert.Equal(t, "/", NormalizeDirArg("/"))
}
