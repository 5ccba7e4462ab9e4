package frame

import "strconv"

// pow10 holds the powers of ten that are exact in float64.
var pow10 = [...]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10,
	1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20,
	1e21, 1e22,
}

// parseFloat parses a decimal token. Tokens with at most 15 significant
// digits and a decimal exponent within ±22 are converted exactly without
// allocating; others go through strconv.
func parseFloat(b []byte) (float64, bool) {
	if v, ok := parseFast(b); ok {
		return v, true
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseFast is the exact path: mantissa and power of ten are both exact
// float64 values, so one multiply or divide rounds correctly.
func parseFast(b []byte) (float64, bool) {
	i := 0
	neg := false
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		neg = b[i] == '-'
		i++
	}

	var mant uint64
	digits, exp := 0, 0
	sawDigit, sawDot := false, false
loop:
	for ; i < len(b); i++ {
		c := b[i]
		switch {
		case c >= '0' && c <= '9':
			sawDigit = true
			if mant == 0 && c == '0' {
				if sawDot {
					exp--
				}
				continue
			}
			if digits == 15 {
				return 0, false
			}
			mant = mant*10 + uint64(c-'0')
			digits++
			if sawDot {
				exp--
			}
		case c == '.':
			if sawDot {
				return 0, false
			}
			sawDot = true
		case c == 'e' || c == 'E':
			break loop
		default:
			return 0, false
		}
	}
	if !sawDigit {
		return 0, false
	}

	if i < len(b) {
		i++
		eneg := false
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			eneg = b[i] == '-'
			i++
		}
		if i == len(b) {
			return 0, false
		}
		e := 0
		for ; i < len(b); i++ {
			c := b[i]
			if c < '0' || c > '9' {
				return 0, false
			}
			if e < 1000 {
				e = e*10 + int(c-'0')
			}
		}
		if eneg {
			e = -e
		}
		exp += e
	}

	v := float64(mant)
	switch {
	case mant == 0:
	case exp < 0 && exp >= -22:
		v /= pow10[-exp]
	case exp >= 0 && exp <= 22:
		v *= pow10[exp]
	default:
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}
