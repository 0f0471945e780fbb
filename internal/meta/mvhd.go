package meta

// QuickTime/MP4 atom walk for the movie header creation time.
// Reference: QuickTime File Format, movie header atom layout.

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Seconds between the Apple epoch (1904-01-01) and the Unix epoch.
const appleEpochAdjustment = 2082844800

const (
	atomMoov = "moov"
	atomMvhd = "mvhd"
)

var errAtomNotFound = errors.New("atom not found")

// mvhdCreation opens path, locates moov/mvhd, and returns the creation time
// in UTC. The file handle is scoped to this call; Close is deferred so the
// descriptor never outlives it, no matter how the walk exits.
func mvhdCreation(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return time.Time{}, err
	}

	moovOffset, moovSize, err := findAtom(f, 0, fi.Size(), atomMoov)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: moov: %w", path, err)
	}
	mvhdOffset, _, err := findAtom(f, moovOffset, moovSize, atomMvhd)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: mvhd: %w", path, err)
	}

	return readMvhdCreation(f, mvhdOffset)
}

// findAtom scans the sibling atoms in [start, start+limit) for the named
// atom and returns the offset and size of its payload (header excluded).
func findAtom(r io.ReaderAt, start, limit int64, name string) (offset, size int64, err error) {
	pos := start
	end := start + limit
	var header [8]byte

	for pos+8 <= end {
		if _, err := r.ReadAt(header[:], pos); err != nil {
			return 0, 0, err
		}

		atomSize := int64(binary.BigEndian.Uint32(header[:4]))
		headerLen := int64(8)
		switch atomSize {
		case 0:
			// Atom extends to the end of the enclosing box.
			atomSize = end - pos
		case 1:
			// 64-bit extended size follows the type field.
			var ext [8]byte
			if _, err := r.ReadAt(ext[:], pos+8); err != nil {
				return 0, 0, err
			}
			atomSize = int64(binary.BigEndian.Uint64(ext[:]))
			headerLen = 16
		}
		if atomSize < headerLen {
			return 0, 0, fmt.Errorf("corrupt atom size %d at offset %d", atomSize, pos)
		}

		if string(header[4:8]) == name {
			return pos + headerLen, atomSize - headerLen, nil
		}
		pos += atomSize
	}
	return 0, 0, errAtomNotFound
}

// readMvhdCreation decodes the creation time from an mvhd payload. Version 0
// stores 32-bit timestamps, version 1 stores 64-bit.
func readMvhdCreation(r io.ReaderAt, offset int64) (time.Time, error) {
	var buf [12]byte
	if _, err := r.ReadAt(buf[:], offset); err != nil {
		return time.Time{}, err
	}

	var appleSeconds int64
	switch version := buf[0]; version {
	case 0:
		appleSeconds = int64(binary.BigEndian.Uint32(buf[4:8]))
	case 1:
		appleSeconds = int64(binary.BigEndian.Uint64(buf[4:12]))
	default:
		return time.Time{}, fmt.Errorf("unsupported mvhd version %d", version)
	}

	// Cameras that don't set a clock leave zero here (the Apple epoch).
	if appleSeconds == 0 {
		return time.Time{}, ErrNoTimestamp
	}
	return time.Unix(appleSeconds-appleEpochAdjustment, 0).UTC(), nil
}
