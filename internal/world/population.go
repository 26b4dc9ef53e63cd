package world

import "math"

// NumBrackets is the number of age brackets tracked per sex.
const NumBrackets = 8

// Bracket indexes used by conscription.
const (
	YoungAdult = 2 // ages 16-40
	MiddleAge  = 3 // ages 41-60
)

// Medieval-style age pyramid weights for initial distribution.
var pyramidWeights = [NumBrackets]float64{0.12, 0.18, 0.30, 0.20, 0.12, 0.06, 0.02, 0.00}

// Breakdown tracks population by 8 age brackets x 2 sexes.
type Breakdown struct {
	Male   [NumBrackets]uint32 `json:"male"`
	Female [NumBrackets]uint32 `json:"female"`
}

// BreakdownFromTotal spreads a total over the age pyramid, 50/50 by sex.
// Rounding error lands on the young-adult bracket.
func BreakdownFromTotal(total uint32) Breakdown {
	half := total / 2
	rem := total - half*2

	var b Breakdown
	var maleSum, femaleSum uint32
	for i := range NumBrackets {
		b.Male[i] = uint32(math.Round(float64(half) * pyramidWeights[i]))
		b.Female[i] = uint32(math.Round(float64(half) * pyramidWeights[i]))
		maleSum += b.Male[i]
		femaleSum += b.Female[i]
	}
	b.Male[YoungAdult] = fixBracket(b.Male[YoungAdult], int64(half)-int64(maleSum))
	b.Female[YoungAdult] = fixBracket(b.Female[YoungAdult], int64(half+rem)-int64(femaleSum))
	return b
}

func fixBracket(v uint32, diff int64) uint32 {
	n := int64(v) + diff
	if n < 0 {
		return 0
	}
	return uint32(n)
}

// Total returns the population across all brackets.
func (b *Breakdown) Total() uint32 {
	var sum uint32
	for i := range NumBrackets {
		sum += b.Male[i] + b.Female[i]
	}
	return sum
}

// AbleBodiedMen counts men in the two working-age brackets.
func (b *Breakdown) AbleBodiedMen() uint32 {
	return b.Male[YoungAdult] + b.Male[MiddleAge]
}

// Draft removes up to n conscripts from the working-age male brackets,
// split proportionally to their sizes. Returns how many were taken.
func (b *Breakdown) Draft(n uint32) uint32 {
	young := b.Male[YoungAdult]
	middle := b.Male[MiddleAge]
	total := young + middle
	if total == 0 || n == 0 {
		return 0
	}
	fromYoung := min(uint32(math.Round(float64(n)*float64(young)/float64(total))), young)
	var fromMiddle uint32
	if n > fromYoung {
		fromMiddle = min(n-fromYoung, middle)
	}
	b.Male[YoungAdult] = young - fromYoung
	b.Male[MiddleAge] = middle - fromMiddle
	return fromYoung + fromMiddle
}

// Restore adds returning soldiers back, half to young adults and the rest
// to middle age.
func (b *Breakdown) Restore(n uint32) {
	half := n / 2
	b.Male[YoungAdult] += half
	b.Male[MiddleAge] += n - half
}

// ScaleTo rescales every bracket so the total equals newTotal.
func (b *Breakdown) ScaleTo(newTotal uint32) {
	current := b.Total()
	if current == 0 || current == newTotal {
		return
	}
	ratio := float64(newTotal) / float64(current)
	var running uint32
	for i := range NumBrackets {
		b.Male[i] = uint32(math.Round(float64(b.Male[i]) * ratio))
		b.Female[i] = uint32(math.Round(float64(b.Female[i]) * ratio))
		running += b.Male[i] + b.Female[i]
	}
	if running != newTotal {
		b.Male[YoungAdult] = fixBracket(b.Male[YoungAdult], int64(newTotal)-int64(running))
	}
}
