package component

import (
	"math"
	"strconv"

	"github.com/sarchlab/akita/v4/sim"
)

type unit struct {
	suffix string
	scale  float64
}

var timeUnits = []unit{
	{"s", 1},
	{"ms", 1e-3},
	{"us", 1e-6},
	{"ns", 1e-9},
	{"ps", 1e-12},
}

var freqUnits = []unit{
	{"GHz", 1e9},
	{"MHz", 1e6},
	{"kHz", 1e3},
	{"Hz", 1},
}

// FormatTime renders a duration with the largest unit that keeps it an
// integer, e.g. 5e-9 becomes "5ns".
func FormatTime(t sim.VTimeInSec) string {
	return format(float64(t), timeUnits)
}

// FormatFreq renders a frequency, e.g. 2*sim.GHz becomes "2GHz".
func FormatFreq(f sim.Freq) string {
	return format(float64(f), freqUnits)
}

func format(v float64, units []unit) string {
	for _, u := range units {
		n := v / u.scale
		r := math.Round(n)

		if r >= 1 && math.Abs(n-r) < 1e-6 {
			return strconv.FormatFloat(r, 'f', -1, 64) + u.suffix
		}
	}

	last := units[len(units)-1]

	return strconv.FormatFloat(v/last.scale, 'g', -1, 64) + last.suffix
}
