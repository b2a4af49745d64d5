package sentiment

// Label is the three-way classification of a polarity.
type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// NeutralBand is the half-width of the neutral zone around zero. A polarity
// is positive only when strictly above NeutralBand and negative only when
// strictly below -NeutralBand.
const NeutralBand = 0.05

// Classify labels a polarity.
func Classify(polarity float64) Label {
	switch {
	case polarity > NeutralBand:
		return Positive
	case polarity < -NeutralBand:
		return Negative
	}
	return Neutral
}

// Majority returns the label with a strict plurality, or Neutral on any tie.
func Majority(pos, neu, neg int) Label {
	switch {
	case pos > neg && pos > neu:
		return Positive
	case neg > pos && neg > neu:
		return Negative
	}
	return Neutral
}
