// Package easing provides named easing curves mapping t in [0, 1] to a
// progress value. Curves are pure functions and safe for concurrent use.
package easing

import (
	"fmt"
	"math"
	"sort"
)

// Func is an easing curve.
type Func func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 { return t }

// InQuad accelerates from zero velocity.
func InQuad(t float64) float64 { return t * t }

// OutQuad decelerates to zero velocity.
func OutQuad(t float64) float64 { return t * (2 - t) }

// InOutQuad accelerates until halfway, then decelerates.
func InOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// InCubic accelerates from zero velocity.
func InCubic(t float64) float64 { return t * t * t }

// OutCubic decelerates to zero velocity.
func OutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

// InOutCubic accelerates until halfway, then decelerates.
func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	t = 2*t - 2
	return 0.5*t*t*t + 1
}

// InQuart accelerates from zero velocity.
func InQuart(t float64) float64 { return t * t * t * t }

// OutQuart decelerates to zero velocity.
func OutQuart(t float64) float64 {
	t--
	return 1 - t*t*t*t
}

// InOutQuart accelerates until halfway, then decelerates.
func InOutQuart(t float64) float64 {
	if t < 0.5 {
		return 8 * t * t * t * t
	}
	t = 2*t - 2
	return 1 - 0.5*t*t*t*t
}

// InQuint accelerates from zero velocity.
func InQuint(t float64) float64 { return t * t * t * t * t }

// OutQuint decelerates to zero velocity.
func OutQuint(t float64) float64 {
	t--
	return t*t*t*t*t + 1
}

// InOutQuint accelerates until halfway, then decelerates.
func InOutQuint(t float64) float64 {
	if t < 0.5 {
		return 16 * t * t * t * t * t
	}
	t = 2*t - 2
	return 0.5*t*t*t*t*t + 1
}

// InSine follows a quarter cosine wave.
func InSine(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) }

// OutSine follows a quarter sine wave.
func OutSine(t float64) float64 { return math.Sin(t * math.Pi / 2) }

// InOutSine follows half a cosine wave. Outside [0, 1] it keeps oscillating
// between 0 and 1 rather than clamping.
func InOutSine(t float64) float64 { return 0.5 * (1 - math.Cos(math.Pi*t)) }

// InExpo accelerates exponentially.
func InExpo(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*(t-1))
}

// OutExpo decelerates exponentially.
func OutExpo(t float64) float64 {
	if t == 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

// InCirc follows a quarter circle.
func InCirc(t float64) float64 { return 1 - math.Sqrt(1-t*t) }

// OutCirc follows a quarter circle.
func OutCirc(t float64) float64 {
	t--
	return math.Sqrt(1 - t*t)
}

// OutBounce bounces off the end value.
func OutBounce(t float64) float64 {
	const n, d = 7.5625, 2.75
	switch {
	case t < 1/d:
		return n * t * t
	case t < 2/d:
		t -= 1.5 / d
		return n*t*t + 0.75
	case t < 2.5/d:
		t -= 2.25 / d
		return n*t*t + 0.9375
	default:
		t -= 2.625 / d
		return n*t*t + 0.984375
	}
}

// InBounce bounces off the start value.
func InBounce(t float64) float64 { return 1 - OutBounce(1-t) }

// InOutBounce bounces at both ends.
func InOutBounce(t float64) float64 {
	if t < 0.5 {
		return InBounce(t*2) * 0.5
	}
	return OutBounce(t*2-1)*0.5 + 0.5
}

var registry = map[string]Func{
	"linear":      Linear,
	"inQuad":      InQuad,
	"outQuad":     OutQuad,
	"inOutQuad":   InOutQuad,
	"inCubic":     InCubic,
	"outCubic":    OutCubic,
	"inOutCubic":  InOutCubic,
	"inQuart":     InQuart,
	"outQuart":    OutQuart,
	"inOutQuart":  InOutQuart,
	"inQuint":     InQuint,
	"outQuint":    OutQuint,
	"inOutQuint":  InOutQuint,
	"inSine":      InSine,
	"outSine":     OutSine,
	"inOutSine":   InOutSine,
	"inExpo":      InExpo,
	"outExpo":     OutExpo,
	"inCirc":      InCirc,
	"outCirc":     OutCirc,
	"inBounce":    InBounce,
	"outBounce":   OutBounce,
	"inOutBounce": InOutBounce,
}

// Lookup returns the curve registered under name.
func Lookup(name string) (Func, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return f, nil
}

// Names returns the registered curve names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
