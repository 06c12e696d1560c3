//go:build windows

package atomic

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// sameDevice reports whether src and dst sit on the same volume.
func sameDevice(src, dst string) (bool, error) {
	src, _ = filepath.Abs(src)
	dst, _ = filepath.Abs(dst)

	srcVol := filepath.VolumeName(src)
	dstVol := filepath.VolumeName(dst)
	if srcVol == "" || dstVol == "" {
		return false, fmt.Errorf("cannot determine volume of %s or %s", src, dst)
	}

	serial := func(vol string) (uint32, error) {
		var id uint32
		err := windows.GetVolumeInformation(windows.StringToUTF16Ptr(vol+`\`), nil, 0, &id, nil, nil, nil, 0)
		return id, err
	}

	srcID, err := serial(srcVol)
	if err != nil {
		return false, fmt.Errorf("volume information for %s: %w", srcVol, err)
	}
	dstID, err := serial(dstVol)
	if err != nil {
		return false, fmt.Errorf("volume information for %s: %w", dstVol, err)
	}

	return srcID == dstID, nil
}
