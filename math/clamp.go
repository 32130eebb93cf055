package math

func Clamp[T float64 | float32](val T, minVal T, maxVal T) T {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
