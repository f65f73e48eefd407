// Package lifecycle holds process lifecycle constants shared between the
// composition root and infrastructure adapters.
package lifecycle

import "time"

// DefaultTimeout bounds startup probes and graceful shutdown steps.
const DefaultTimeout = 10 * time.Second
