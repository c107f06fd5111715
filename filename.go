package pe

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidFilename = errors.New("invalid Windows filename")

const reservedFilenameChars = `<>:"\/|?*`

var reservedDeviceNames = []string{
	"CON", "PRN", "AUX", "NUL",
	"COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9",
	"LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9",
}

// CheckFilename applies the Windows file naming rules to the base name of
// path: no reserved characters, no control characters, no trailing period
// or space, and no reserved device name with or without an extension.
func CheckFilename(path string) error {
	name := filepath.Base(path)
	if name == "" || name == "." || name == ".." {
		return errors.Wrapf(ErrInvalidFilename, "%q has no file name", path)
	}

	for _, c := range name {
		if c < 0x20 {
			return errors.Wrapf(ErrInvalidFilename, "%q contains control character 0x%02x", name, c)
		}
		if strings.ContainsRune(reservedFilenameChars, c) {
			return errors.Wrapf(ErrInvalidFilename, "%q contains reserved character %q", name, c)
		}
	}

	if strings.HasSuffix(name, ".") || strings.HasSuffix(name, " ") {
		return errors.Wrapf(ErrInvalidFilename, "%q ends with a period or space", name)
	}

	stem := name
	if i := strings.IndexByte(stem, '.'); i >= 0 {
		stem = stem[:i]
	}
	if stringInSlice(strings.ToUpper(stem), reservedDeviceNames) {
		return errors.Wrapf(ErrInvalidFilename, "%q uses reserved device name %s", name, stem)
	}
	return nil
}

// stringInSlice checks weather a string exists in a slice of strings.
func stringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}
