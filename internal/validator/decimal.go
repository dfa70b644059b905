package validator

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// maxExp bounds Decimal exponents. Larger exponents saturate, which keeps
// exponent arithmetic inside int64.
const maxExp = 1 << 60

var bigTen = big.NewInt(10)

// Decimal is an exact number M × 10^Exp. M has no trailing zeros, so zero is
// {0, 0} and every value has one representation. Exponents are not bounded by
// the size of an expanded integer, so 1e50000000 stays cheap.
type Decimal struct {
	M   *big.Int
	Exp int64
}

// ParseDecimal parses a number in JSON grammar.
func ParseDecimal(s string) (Decimal, bool) {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	i := digitRun(s)
	if i == 0 || (i > 1 && s[0] == '0') {
		return Decimal{}, false
	}
	intPart, rest := s[:i], s[i:]
	frac := ""
	if strings.HasPrefix(rest, ".") {
		j := digitRun(rest[1:])
		if j == 0 {
			return Decimal{}, false
		}
		frac, rest = rest[1:1+j], rest[1+j:]
	}
	var exp int64
	if rest != "" {
		if rest[0] != 'e' && rest[0] != 'E' {
			return Decimal{}, false
		}
		rest = rest[1:]
		expNeg := false
		if rest != "" && (rest[0] == '+' || rest[0] == '-') {
			expNeg = rest[0] == '-'
			rest = rest[1:]
		}
		if rest == "" || digitRun(rest) != len(rest) {
			return Decimal{}, false
		}
		e, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || e > maxExp {
			e = maxExp
		}
		if expNeg {
			e = -e
		}
		exp = e
	}
	return makeDecimal(neg, intPart+frac, exp-int64(len(frac))), true
}

func digitRun(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// makeDecimal builds a normalised Decimal from an unsigned digit string.
func makeDecimal(neg bool, digits string, exp int64) Decimal {
	digits = strings.TrimLeft(digits, "0")
	trimmed := strings.TrimRight(digits, "0")
	if trimmed == "" {
		return Decimal{M: new(big.Int)}
	}
	exp = clampExp(exp + int64(len(digits)-len(trimmed)))
	m, _ := new(big.Int).SetString(trimmed, 10)
	if neg {
		m.Neg(m)
	}
	return Decimal{M: m, Exp: exp}
}

func clampExp(e int64) int64 {
	switch {
	case e > maxExp:
		return maxExp
	case e < -maxExp:
		return -maxExp
	}
	return e
}

// Num converts a JSON number to a Decimal. Floats go through their shortest
// decimal form so that 0.1 stays 0.1.
func Num(v any) (Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		return ParseDecimal(string(t))
	case float64:
		return decimalFromFloat(t)
	case float32:
		return decimalFromFloat(float64(t))
	case int:
		return decimalFromInt(int64(t)), true
	case int8:
		return decimalFromInt(int64(t)), true
	case int16:
		return decimalFromInt(int64(t)), true
	case int32:
		return decimalFromInt(int64(t)), true
	case int64:
		return decimalFromInt(t), true
	case uint:
		return makeDecimal(false, strconv.FormatUint(uint64(t), 10), 0), true
	case uint8:
		return decimalFromInt(int64(t)), true
	case uint16:
		return decimalFromInt(int64(t)), true
	case uint32:
		return decimalFromInt(int64(t)), true
	case uint64:
		return makeDecimal(false, strconv.FormatUint(t, 10), 0), true
	}
	return Decimal{}, false
}

func decimalFromInt(i int64) Decimal {
	return makeDecimal(i < 0, strings.TrimPrefix(strconv.FormatInt(i, 10), "-"), 0)
}

func decimalFromFloat(f float64) (Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Decimal{}, false
	}
	return ParseDecimal(strconv.FormatFloat(f, 'g', -1, 64))
}

// Sign returns -1, 0 or +1.
func (d Decimal) Sign() int { return d.M.Sign() }

// IsInt reports whether d has no fractional part.
func (d Decimal) IsInt() bool { return d.M.Sign() == 0 || d.Exp >= 0 }

// Int64 returns d as an int64 when it is an integer in range.
func (d Decimal) Int64() (int64, bool) {
	if !d.IsInt() || d.Exp > 18 {
		return 0, false
	}
	v := new(big.Int).Mul(d.M, pow10(d.Exp))
	return v.Int64(), v.IsInt64()
}

func (d Decimal) absDigits() string {
	return strings.TrimPrefix(d.M.String(), "-")
}

// order is the decimal exponent of the leading digit plus one.
func (d Decimal) order() int64 {
	return d.Exp + int64(len(d.absDigits()))
}

// Cmp compares d and o and returns -1, 0 or +1.
func (d Decimal) Cmp(o Decimal) int {
	sd, so := d.Sign(), o.Sign()
	if sd != so {
		return cmpInt64(int64(sd), int64(so))
	}
	if sd == 0 {
		return 0
	}
	if od, oo := d.order(), o.order(); od != oo {
		return sd * cmpInt64(od, oo)
	}
	// equal orders: the exponent gap is bounded by the digit counts
	e := min(d.Exp, o.Exp)
	a := new(big.Int).Mul(d.M, pow10(d.Exp-e))
	b := new(big.Int).Mul(o.M, pow10(o.Exp-e))
	return a.Cmp(b)
}

// MultipleOf reports whether d / div is an integer. div must be non-zero.
func (d Decimal) MultipleOf(div Decimal) bool {
	if d.Sign() == 0 {
		return true
	}
	a := new(big.Int).Abs(d.M)
	m := new(big.Int).Abs(div.M)
	shift := d.Exp - div.Exp
	if shift < 0 {
		// |a| < 10^-shift while m >= 1, so the quotient lies in (0, 1)
		if -shift > int64(len(a.String())) {
			return false
		}
		m.Mul(m, pow10(-shift))
		return new(big.Int).Rem(a, m).Sign() == 0
	}
	// factors of ten beyond the powers of two and five in m cannot help
	twos, fives := factorCount(m, 2), factorCount(m, 5)
	shift = min(shift, max(twos, fives))
	a.Mul(a, pow10(shift))
	return new(big.Int).Rem(a, m).Sign() == 0
}

func factorCount(n *big.Int, p int64) int64 {
	bp := big.NewInt(p)
	q, r := new(big.Int), new(big.Int)
	x := new(big.Int).Set(n)
	var c int64
	for x.Sign() != 0 {
		q.QuoRem(x, bp, r)
		if r.Sign() != 0 {
			break
		}
		x.Set(q)
		c++
	}
	return c
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(n), nil)
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// String renders d in plain notation when it is short and in exponent
// notation otherwise.
func (d Decimal) String() string {
	if d.Sign() == 0 {
		return "0"
	}
	ds := d.absDigits()
	sign := ""
	if d.Sign() < 0 {
		sign = "-"
	}
	n := int64(len(ds))
	switch {
	case d.Exp >= 0 && d.Exp+n <= 21:
		return sign + ds + strings.Repeat("0", int(d.Exp))
	case d.Exp < 0 && -d.Exp < n:
		return sign + ds[:n+d.Exp] + "." + ds[n+d.Exp:]
	case d.Exp < 0 && -d.Exp-n <= 5:
		return sign + "0." + strings.Repeat("0", int(-d.Exp-n)) + ds
	}
	mant := ds[:1]
	if n > 1 {
		mant += "." + ds[1:]
	}
	return sign + mant + "e" + strconv.FormatInt(d.Exp+n-1, 10)
}
