package sessions

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Duration specs are "<int><unit>" with unit m(inute), h(our), d(ay),
// or w(eek): "1h", "6h", "24h", "7d".
var durationRe = regexp.MustCompile(`^(\d+)([mhdw])$`)

// maxDurationUnits bounds the numeric part so the product can never
// overflow time.Duration (292y in weeks is ~15e3).
const maxDurationUnits = 10_000

// ParseDurationSpec converts a duration specifier into a time.Duration.
// Fails with ErrValidation on anything that does not match, including
// a zero value.
func ParseDurationSpec(spec string) (time.Duration, error) {
	const op = "sessions.ParseDurationSpec"

	m := durationRe.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return 0, OpError{Op: op, Kind: ErrValidation, Msg: fmt.Sprintf("malformed duration %q", spec)}
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 || n > maxDurationUnits {
		return 0, OpError{Op: op, Kind: ErrValidation, Msg: fmt.Sprintf("duration value out of range in %q", spec)}
	}

	var unit time.Duration
	switch m[2] {
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	case "w":
		unit = 7 * 24 * time.Hour
	}

	return time.Duration(n) * unit, nil
}
