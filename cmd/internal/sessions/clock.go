package sessions

import "time"

// Clock supplies current time to the engine. Production code uses
// SystemClock; tests inject a manual clock to drive expiry
// deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the wall-clock Clock used outside tests.
var SystemClock Clock = systemClock{}
