package prices

import "time"

// Point is one sample of a derived line series.
type Point struct {
	Time  time.Time
	Value float64
}

// Normalize rebases closes so the first bar equals 100. A series whose first
// close is zero cannot be rebased and yields nil.
func Normalize(s Series) []Point {
	if len(s.Bars) == 0 || s.Bars[0].Close == 0 {
		return nil
	}
	base := s.Bars[0].Close
	out := make([]Point, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = Point{Time: b.Timestamp, Value: b.Close / base * 100}
	}
	return out
}
