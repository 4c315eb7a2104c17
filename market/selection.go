package market

import "time"

// TacDefinition names one technical-analysis-component binding a script may
// reference: a human-readable name plus the set of indicator names it
// needs computed.
type TacDefinition struct {
	Name       string
	Indicators []string
}

// Selection is the request object the provisioner and the strategy driver
// both consume: the (symbol, minutes) series, the date window, and the
// heikin-ashi/tacs knobs a script-back-test run is configured with.
type Selection struct {
	Symbol     string
	Minutes    int32
	StartTime  time.Time
	EndTime    time.Time
	HeikinAshi bool
	Tacs       map[string]TacDefinition
}

// Range returns the Selection's window as an OpenCloseRange.
func (s Selection) Range() (OpenCloseRange, error) {
	return RangeFromDates(s.StartTime, s.EndTime, s.Minutes)
}
