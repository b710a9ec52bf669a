package pades

import "github.com/padeskit/pades/internal/pdfbuild"

// Configuration constants, spec §6.5. Exported numeric knobs, matching the
// teacher's own approach (SignatureMaxLengthBase) rather than a config file
// — command-line settings are flags in cmd/padessign; there is no config file.
const (
	PlaceholderSize   = pdfbuild.PlaceholderSize
	EOFSearchWindow   = 1024
	TSATimeoutSeconds = 30
)
