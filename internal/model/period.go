package model

// Period is a lookback window expressed in the provider's range notation.
type Period string

const (
	Period1Month  Period = "1mo"
	Period3Months Period = "3mo"
	Period6Months Period = "6mo"
	Period1Year   Period = "1y"
	Period2Years  Period = "2y"

	DefaultPeriod = Period6Months
)

var periodLabels = map[Period]string{
	Period1Month:  "Last Month",
	Period3Months: "Last 3 Months",
	Period6Months: "Last 6 Months",
	Period1Year:   "Last Year",
	Period2Years:  "Last 2 Years",
}

var periodDays = map[Period]int{
	Period1Month:  31,
	Period3Months: 92,
	Period6Months: 183,
	Period1Year:   366,
	Period2Years:  731,
}

// Valid reports whether p is a supported lookback.
func (p Period) Valid() bool {
	_, ok := periodLabels[p]
	return ok
}

// Label returns a human readable lookback, e.g. "Last 6 Months".
func (p Period) Label() string {
	if l, ok := periodLabels[p]; ok {
		return l
	}
	return periodLabels[DefaultPeriod]
}

// Days returns the calendar days covered by the period.
func (p Period) Days() int {
	if d, ok := periodDays[p]; ok {
		return d
	}
	return periodDays[DefaultPeriod]
}

// OrDefault returns p, or DefaultPeriod when p is empty or unknown.
func (p Period) OrDefault() Period {
	if p.Valid() {
		return p
	}
	return DefaultPeriod
}
