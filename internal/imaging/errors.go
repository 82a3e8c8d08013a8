package imaging

import "errors"

// ErrUnsupportedFormat indicates the document bytes are not a readable
// PDF. Rendering the same bytes again will fail the same way, so callers
// should treat this as terminal for the document.
var ErrUnsupportedFormat = errors.New("unsupported document format")
