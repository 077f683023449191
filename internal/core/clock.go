package core

import "time"

// Clock supplies the current time. Production wiring passes time.Now; tests
// substitute a fixed clock to pin issue dates and exit timestamps.
type Clock func() time.Time
