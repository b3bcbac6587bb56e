package schedule

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// IDGenerator hands out show ids.
type IDGenerator interface {
	NewShowID() string
}

// RandomIDs generates ids of the form SHOW-<unix-millis>-<random6>.
type RandomIDs struct {
	Now func() time.Time
}

// NewShowID implements IDGenerator.
func (g RandomIDs) NewShowID() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return FormatShowID(now(), randomSuffix(6))
}

// FormatShowID renders a show id from its timestamp and random suffix.
func FormatShowID(t time.Time, suffix string) string {
	return fmt.Sprintf("SHOW-%d-%s", t.UnixMilli(), suffix)
}

func randomSuffix(n int) string {
	max := big.NewInt(int64(len(idAlphabet)))
	out := make([]byte, n)
	for i := range out {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms; fall back to
			// the clock so the id stays well formed.
			v = big.NewInt(time.Now().UnixNano() % int64(len(idAlphabet)))
		}
		out[i] = idAlphabet[v.Int64()]
	}
	return string(out)
}
