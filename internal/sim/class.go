// Wealth classification — a pure function of the three balances. Reporting
// counts and visualization portrayals both go through Classify, so charts
// and the grid view cannot disagree.

package sim

// Class is a person's wealth classification.
type Class uint8

const (
	ClassMiddle Class = iota
	ClassRich
	ClassPoor
)

// poorLoanThreshold is the outstanding-loan level above which a person
// counts as poor.
const poorLoanThreshold = 10

// String returns the class name used in reports and the API.
func (c Class) String() string {
	switch c {
	case ClassRich:
		return "rich"
	case ClassPoor:
		return "poor"
	default:
		return "middle"
	}
}

// Classify maps balances to a class. The checks form a fixed priority chain:
// savings above the threshold wins over a large loan balance.
func Classify(savings, loans, richThreshold int64) Class {
	if savings > richThreshold {
		return ClassRich
	}
	if loans > poorLoanThreshold {
		return ClassPoor
	}
	return ClassMiddle
}

// Portrayal describes how a person is drawn by an external renderer.
type Portrayal struct {
	Shape string  `json:"shape"`
	Color string  `json:"color"`
	Layer int     `json:"layer"`
	R     float64 `json:"r"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
}

// Class colors from Matplotlib's tab10 palette, matching the original
// operator console.
const (
	colorRich   = "#2ca02c"
	colorPoor   = "#d62728"
	colorMiddle = "#1f77b4"
)

// color returns the portrayal color for a class.
func (c Class) color() string {
	switch c {
	case ClassRich:
		return colorRich
	case ClassPoor:
		return colorPoor
	default:
		return colorMiddle
	}
}
