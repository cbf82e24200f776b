// Package money provides the integer euro-cent amount used across the
// pricing engine and its German display format.
package money

import (
	"strconv"
	"strings"
)

// Money is an amount of euros stored in cents. Every tariff amount is a
// whole-euro value, so the percentage steps applied by the engine (20%
// discount, 50% subsidy, 3% fee) stay exact under integer arithmetic.
type Money int64

// FromEuros converts a whole-euro amount into Money.
func FromEuros(euros int64) Money {
	return Money(euros * 100)
}

// Euros returns the value in whole euros, truncating any cent remainder.
func (m Money) Euros() int64 {
	return int64(m) / 100
}

// Float64 returns the value in euros for metric observation.
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// String renders the amount with the German locale convention, e.g.
// "1.234,56 €". Negative amounts keep their sign: "-27.400,00 €".
func (m Money) String() string {
	cents := int64(m)
	var b strings.Builder
	if cents < 0 {
		b.WriteByte('-')
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
		if len(whole) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(whole); i += 3 {
		b.WriteString(whole[i : i+3])
		if i+3 < len(whole) {
			b.WriteByte('.')
		}
	}
	b.WriteByte(',')
	rem := cents % 100
	if rem < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(rem, 10))
	b.WriteString(" €")
	return b.String()
}
