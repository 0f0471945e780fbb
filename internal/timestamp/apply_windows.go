//go:build windows

package timestamp

import (
	"fmt"
	"time"

	"golang.org/x/sys/windows"
)

// Apply stamps t as the creation, last-write, and last-access time of the
// converted file. The handle is opened for attribute writes only and closed
// before returning.
func Apply(path string, t time.Time) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("encode path %q: %w", path, err)
	}

	h, err := windows.CreateFile(
		p,
		windows.FILE_WRITE_ATTRIBUTES,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return fmt.Errorf("open %q for attribute write: %w", path, err)
	}
	defer windows.CloseHandle(h)

	ft := windows.NsecToFiletime(t.UnixNano())
	if err := windows.SetFileTime(h, &ft, &ft, &ft); err != nil {
		return fmt.Errorf("set file times on %q: %w", path, err)
	}
	return nil
}
