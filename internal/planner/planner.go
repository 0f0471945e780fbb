// Package planner maps a probed source codec to the target encoder and
// resolves the output path for a file.
package planner

import (
	"path/filepath"
	"strings"

	"github.com/backmassage/clipshrink/internal/config"
	"github.com/backmassage/clipshrink/internal/probe"
)

// Target encoder identifiers passed to ffmpeg's -c:v.
const (
	EncoderX265    = "libx265"
	EncoderX264    = "libx264"
	EncoderVP9     = "libvpx-vp9"
	DefaultEncoder = EncoderX265
)

// encoderFor is the total source-codec → target-encoder mapping. Lookup
// misses (unknown, absent, empty codec) fall through to DefaultEncoder.
var encoderFor = map[string]string{
	"hevc": EncoderX265,
	"vp9":  EncoderVP9,
	"h264": EncoderX264,
}

// EncoderForCodec returns the target encoder for a source codec name.
// Total: never fails, unmapped inputs get the default (x265).
func EncoderForCodec(codec string) string {
	if enc, ok := encoderFor[strings.ToLower(strings.TrimSpace(codec))]; ok {
		return enc
	}
	return DefaultEncoder
}

// FilePlan holds everything the ffmpeg invoker needs for one file.
type FilePlan struct {
	InputPath    string
	OutputPath   string
	SourceCodec  string
	VideoEncoder string
	AudioEncoder string
	AudioBitrate string
}

// OutputPath places the converted file in the output subdirectory next to
// the input, named <base>_conv<ext>.
func OutputPath(inputPath, outputDirName string) string {
	dir := filepath.Dir(inputPath)
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)
	return filepath.Join(dir, outputDirName, base+"_conv"+ext)
}

// BuildPlan derives the conversion plan for one probed file.
func BuildPlan(cfg *config.Config, pr *probe.Result, inputPath string) *FilePlan {
	codec := pr.VideoCodec()
	return &FilePlan{
		InputPath:    inputPath,
		OutputPath:   OutputPath(inputPath, cfg.OutputDirName),
		SourceCodec:  codec,
		VideoEncoder: EncoderForCodec(codec),
		AudioEncoder: cfg.AudioEncoder,
		AudioBitrate: cfg.AudioBitrate,
	}
}
