package dmdetect

import "errors"

// ErrNotFound is returned when no Data Matrix symbol can be located in the
// image. Detection failures wrap it with the step that gave up.
var ErrNotFound = errors.New("barcode not found")
