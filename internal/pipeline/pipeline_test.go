package pipeline

import (
	"context"
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/clipshrink/internal/config"
	"github.com/backmassage/clipshrink/internal/logging"
)

// --- Discover tests ---

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "trip.mp4")
	touch(t, dir, "old.avi")
	touch(t, dir, "cat.mkv")
	touch(t, dir, "pan.mov")
	touch(t, dir, "notes.txt")
	touch(t, dir, "song.mp3")
	touch(t, dir, "pic.jpg")

	files, err := Discover(dir)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"trip.mp4", "old.avi", "cat.mkv", "pan.mov"},
		basenames(files))
}

func TestDiscover_CaseInsensitiveExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "UPPER.MP4")
	touch(t, dir, "Mixed.MoV")
	touch(t, dir, "plain.mkv")

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestDiscover_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "main.mp4")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Converted"), 0o755))
	touch(t, filepath.Join(dir, "Converted"), "main_conv.mp4")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.mp4"), 0o755))

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.mp4"}, basenames(files))
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDiscover_EmptyDir(t *testing.T) {
	files, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

// --- Run tests with fake tools ---

const appleEpochAdjustment = 2082844800

// writeMP4 writes a minimal ftyp+moov/mvhd file whose embedded creation
// time is created (zero time means no timestamp).
func writeMP4(t *testing.T, dir, name string, created time.Time) string {
	t.Helper()

	mvhd := make([]byte, 100)
	if !created.IsZero() {
		binary.BigEndian.PutUint32(mvhd[4:8], uint32(created.Unix()+appleEpochAdjustment))
	}

	box := func(typ string, payload []byte) []byte {
		b := make([]byte, 8+len(payload))
		binary.BigEndian.PutUint32(b[:4], uint32(8+len(payload)))
		copy(b[4:8], typ)
		copy(b[8:], payload)
		return b
	}

	var data []byte
	data = append(data, box("ftyp", []byte("isom\x00\x00\x02\x00"))...)
	data = append(data, box("moov", box("mvhd", mvhd))...)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

const fakeProbeScript = `#!/bin/sh
case "$*" in
  *show_entries*)
    echo '{ "format": { "tags": {} } }'
    ;;
  *)
    cat <<'EOF'
{
  "streams": [
    { "index": 0, "codec_name": "hevc", "codec_type": "video",
      "width": 1920, "height": 1080, "disposition": { "attached_pic": 0 } }
  ],
  "format": { "filename": "x", "nb_streams": 1, "tags": {} }
}
EOF
    ;;
esac
`

// fakeFfmpegOK records its argv next to the script and writes the output
// file named by the last argument.
const fakeFfmpegOK = `#!/bin/sh
echo "$*" > "$0.args"
for last; do :; done
echo converted > "$last"
`

const fakeFfmpegFail = `#!/bin/sh
echo "Error while opening encoder" >&2
exit 1
`

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func testConfig(t *testing.T, inputDir string, ffmpegBody string) config.Config {
	t.Helper()
	tools := t.TempDir()

	cfg := config.Defaults()
	cfg.InputDir = inputDir
	cfg.ColorMode = config.ColorNever
	cfg.ShowProgress = false
	cfg.FFprobePath = writeScript(t, tools, "ffprobe", fakeProbeScript)
	cfg.FFmpegPath = writeScript(t, tools, "ffmpeg", ffmpegBody)
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	created := time.Date(2024, time.July, 4, 15, 0, 0, 0, time.UTC)
	writeMP4(t, dir, "clip.mp4", created)
	touch(t, dir, "notes.txt")

	cfg := testConfig(t, dir, fakeFfmpegOK)
	log := newTestLogger(t, &cfg)

	stats := Run(context.Background(), &cfg, log)

	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Converted)
	assert.Zero(t, stats.Skipped)
	assert.Zero(t, stats.Failed)

	outPath := filepath.Join(dir, "Converted", "clip_conv.mp4")
	fi, err := os.Stat(outPath)
	require.NoError(t, err, "converted file should exist")

	// tzdata rule: same instant as the embedded capture time.
	assert.True(t, fi.ModTime().Equal(created),
		"mod time %v, want %v", fi.ModTime(), created)

	// The hevc source must be re-encoded with libx265.
	argv, err := os.ReadFile(cfg.FFmpegPath + ".args")
	require.NoError(t, err)
	assert.Contains(t, string(argv), "-c:v libx265")
}

func TestRun_SkipFileWithoutTimestamp(t *testing.T) {
	dir := t.TempDir()
	writeMP4(t, dir, "old.mp4", time.Time{})

	cfg := testConfig(t, dir, fakeFfmpegOK)
	log := newTestLogger(t, &cfg)

	stats := Run(context.Background(), &cfg, log)

	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.Converted)
	assert.Zero(t, stats.Failed)

	// No conversion was attempted: output dir must not exist.
	_, err := os.Stat(filepath.Join(dir, "Converted"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRun_SkipAviWithoutTimestamp(t *testing.T) {
	// .avi has no mvhd fast path; the creation_time lookup goes through
	// ffprobe, and the fake returns empty tags.
	dir := t.TempDir()
	touch(t, dir, "old.avi")

	cfg := testConfig(t, dir, fakeFfmpegOK)
	log := newTestLogger(t, &cfg)

	stats := Run(context.Background(), &cfg, log)

	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.Converted)
	assert.Zero(t, stats.Failed)

	_, err := os.Stat(filepath.Join(dir, "Converted"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRun_TranscodeFailure(t *testing.T) {
	dir := t.TempDir()
	created := time.Date(2024, time.July, 4, 15, 0, 0, 0, time.UTC)
	writeMP4(t, dir, "clip.mp4", created)

	cfg := testConfig(t, dir, fakeFfmpegFail)
	log := newTestLogger(t, &cfg)

	stats := Run(context.Background(), &cfg, log)

	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, stats.Converted)

	// Failed conversions leave no partial output for the timestamp step.
	_, err := os.Stat(filepath.Join(dir, "Converted", "clip_conv.mp4"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRun_SkipExisting(t *testing.T) {
	dir := t.TempDir()
	created := time.Date(2024, time.July, 4, 15, 0, 0, 0, time.UTC)
	writeMP4(t, dir, "clip.mp4", created)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Converted"), 0o755))
	touch(t, filepath.Join(dir, "Converted"), "clip_conv.mp4")

	cfg := testConfig(t, dir, fakeFfmpegOK)
	log := newTestLogger(t, &cfg)

	stats := Run(context.Background(), &cfg, log)
	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.Converted)
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	created := time.Date(2024, time.July, 4, 15, 0, 0, 0, time.UTC)
	writeMP4(t, dir, "clip.mp4", created)

	cfg := testConfig(t, dir, fakeFfmpegFail) // must never be invoked
	cfg.DryRun = true
	log := newTestLogger(t, &cfg)

	stats := Run(context.Background(), &cfg, log)
	assert.Equal(t, 1, stats.Converted)
	assert.Zero(t, stats.Failed)

	// A dry run writes nothing, not even the output directory.
	_, err := os.Stat(filepath.Join(dir, "Converted"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRun_MissingInputDir(t *testing.T) {
	cfg := testConfig(t, t.TempDir(), fakeFfmpegOK)
	cfg.InputDir = filepath.Join(cfg.InputDir, "gone")
	log := newTestLogger(t, &cfg)

	stats := Run(context.Background(), &cfg, log)
	assert.NotZero(t, stats.Failed)
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	created := time.Date(2024, time.July, 4, 15, 0, 0, 0, time.UTC)
	writeMP4(t, dir, "clip.mp4", created)

	cfg := testConfig(t, dir, fakeFfmpegOK)
	log := newTestLogger(t, &cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := Run(ctx, &cfg, log)
	assert.Zero(t, stats.Converted)
}
