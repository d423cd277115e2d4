package process

import "fmt"

// BinaryFileError marks a file the processor refuses to touch: substituting
// into binary content would corrupt it. Fatal for the file, not the run.
type BinaryFileError struct {
	Path string
}

func (e BinaryFileError) Error() string {
	return fmt.Sprintf("binary file: %s (templates must be text)", e.Path)
}

// probeSize is how much of the file the binary probe inspects.
const probeSize = 512

// isBinary reports whether data looks like binary content. A NUL byte in
// the probe window is decisive; otherwise more than 30% non-printable
// bytes tips the call. Empty files are text.
func isBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	probe := data
	if len(probe) > probeSize {
		probe = probe[:probeSize]
	}

	nonPrintable := 0
	for _, b := range probe {
		if b == 0 {
			return true
		}
		if (b < 32 || b > 126) && b != '\n' && b != '\r' && b != '\t' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(probe)) > 0.30
}
