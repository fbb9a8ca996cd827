package polymer

import "strconv"

// At returns a pointer offset for use in the expansion helpers.
func At(offset int) *int { return &offset }

// Expand1D appends base+offset numbers to every prefix, for base in
// 1..Period. A nil offset keeps the prefixes unchanged. The result is
// indexed by base number.
func Expand1D(prefixes []string, base int, offset *int) []string {
	if offset == nil {
		return append([]string(nil), prefixes...)
	}
	n := strconv.Itoa(Number(base, *offset))
	out := make([]string, len(prefixes))
	for i, p := range prefixes {
		out[i] = p + n
	}
	return out
}

// Expand2D appends the two numbers reached from (x, y) by offset to every
// prefix. A nil offset keeps the prefixes unchanged.
func Expand2D(prefixes []string, x, y int, offset *Offset2D) []string {
	if offset == nil {
		return append([]string(nil), prefixes...)
	}
	nx, ny := Number2D(x, y, *offset)
	suffix := strconv.Itoa(nx) + "_" + strconv.Itoa(ny)
	out := make([]string, len(prefixes))
	for i, p := range prefixes {
		out[i] = p + suffix
	}
	return out
}

// AllNumbers lists prefix+n for n in 1..Period.
func AllNumbers(prefix string) []string {
	out := make([]string, 0, Period)
	for n := 1; n <= Period; n++ {
		out = append(out, prefix+strconv.Itoa(n))
	}
	return out
}

// AllNumbers2D lists prefix+"x_y" for every lattice pair.
func AllNumbers2D(prefix string) []string {
	out := make([]string, 0, Period*Period)
	for x := 1; x <= Period; x++ {
		for y := 1; y <= Period; y++ {
			out = append(out, prefix+strconv.Itoa(x)+"_"+strconv.Itoa(y))
		}
	}
	return out
}
