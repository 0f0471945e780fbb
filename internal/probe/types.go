package probe

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	NbStreams  int
	FormatName string
	Duration   float64
	Size       int64
	BitRate    int64
	Tags       map[string]string
}

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index         int
	Codec         string
	Profile       string
	PixFmt        string
	Width         int
	Height        int
	BitRate       int64
	IsAttachedPic bool
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Index    int
	Codec    string
	Channels int
	BitRate  int64
}

// Result is the fully parsed output of a single ffprobe JSON call.
// PrimaryVideo is the first non-attached-pic video stream (nil if none).
type Result struct {
	Format       FormatInfo
	PrimaryVideo *VideoStream
	AudioStreams []AudioStream
}

// VideoCodec returns the primary video stream's codec name, or "" when the
// file has no usable video stream.
func (r *Result) VideoCodec() string {
	if r.PrimaryVideo == nil {
		return ""
	}
	return r.PrimaryVideo.Codec
}

// CreationTimeTag returns the container-level creation_time tag, or "" when
// absent. The meta package parses it into a time value.
func (r *Result) CreationTimeTag() string {
	return r.Format.Tags["creation_time"]
}
