package domain

import (
	"strconv"
	"strings"
)

// CompareVersions orders two dotted version strings.
// Segments are compared numerically when both sides are numeric, and
// lexically otherwise. A version that is a strict prefix of another sorts
// lower ("3.11" < "3.11.9"). Returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aNum := atoi(as[i])
		bn, bNum := atoi(bs[i])

		switch {
		case aNum && bNum:
			if an != bn {
				return sign(an - bn)
			}
		default:
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
	}

	return sign(len(as) - len(bs))
}

// VersionSatisfies reports whether a concrete version satisfies a pin.
// An empty pin accepts anything. Otherwise the pin must match exactly or be
// a dotted prefix of the version, so pin "3.11" accepts "3.11.9".
func VersionSatisfies(version, pin string) bool {
	if pin == "" {
		return true
	}
	if version == pin {
		return true
	}
	return strings.HasPrefix(version, pin+".")
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
