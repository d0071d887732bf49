package timing

import (
	"log"
	"math"
	"time"
)

// Freq defines the type of frequency
type Freq float64

// Hz is one tick per second.
const Hz Freq = 1

// FreqOf returns the frequency that ticks once every interval.
func FreqOf(interval time.Duration) Freq {
	if interval <= 0 {
		log.Panic("tick interval must be positive")
	}

	return Freq(1 / interval.Seconds())
}

// NextTick returns the next tick time.
//
//	           Input
//	           [          )
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (f Freq) NextTick(now VTimeInSec) VTimeInSec {
	if math.IsNaN(float64(now)) {
		log.Panic("invalid time")
	}

	count := math.Floor(math.Round(float64(now)*10*float64(f)) / 10)

	return VTimeInSec((count + 1) / float64(f))
}
