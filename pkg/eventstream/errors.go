package eventstream

import "errors"

// ErrNilMemoryEvent indicates a nil memory event payload was provided to a publisher.
var ErrNilMemoryEvent = errors.New("nil memory event")
