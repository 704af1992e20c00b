package booking

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Booking codes are the human-facing identity: prefix, base-36 millisecond
// timestamp, and a random suffix, all upper-cased. They are immutable once
// assigned.
const (
	codePrefix       = "WF"
	// Eight random characters keep bulk generation collision-free: within
	// one millisecond bucket the suffix space is 36^8.
	codeSuffixLength = 8
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CodePattern matches well-formed booking codes.
var CodePattern = regexp.MustCompile(`^WF-[0-9A-Z]+-[0-9A-Z]{8}$`)

// NewCode generates a booking code for the given instant.
func NewCode(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return fmt.Sprintf("%s-%s-%s", codePrefix, ts, randomSuffix(codeSuffixLength))
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the platform entropy source is broken;
		// there is no sensible fallback for an identity value.
		panic(fmt.Sprintf("booking: entropy unavailable: %v", err))
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out)
}
