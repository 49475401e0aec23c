package dsp

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clip3(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clipALF clips both neighbour differences to [-c, c] and adds them.
func clipALF(c, cur, a, b int) int {
	return clip3(-c, c, a-cur) + clip3(-c, c, b-cur)
}
