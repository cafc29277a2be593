// Package uihelpers holds the viewer's pure sizing and axis helpers,
// kept free of fyne and chart dependencies so they stay unit-testable.
package uihelpers

import (
	"fmt"
	"math"
)

// BiasStep is the increment of the applied-potential stepper, in volts.
const BiasStep = 0.1

// ClampBias keeps the applied potential inside the range the stepper
// exposes.
func ClampBias(v float64) float64 {
	if v < -2.0 {
		return -2.0
	}
	if v > 2.0 {
		return 2.0
	}
	return v
}

// ComputeChartDimensions applies the width/height clamp rules for
// diagram charts. Input is the desired raw width (e.g. canvas width);
// charts keep a 4:3-ish aspect with sane vertical bounds.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.75)
	if h < 480 {
		h = 480
	}
	if h > 900 {
		h = 900
	}
	return w, h
}

// NiceEnergyBounds expands [min,max] by a small margin and rounds to
// "nice" numbers for readability.
func NiceEnergyBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	if pad <= 0 {
		pad = 1
	}
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// BuildEnergyTicks generates up to n tick positions spanning [min,max]
// using the 1, 2, 2.5, 5, 10 step pattern.
func BuildEnergyTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if count < 2 {
			count = 2
		}
		diff := math.Abs(count - float64(n))
		if diff < bestScore {
			bestScore = diff
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var out []float64
	for v := start; v <= end+bestStep*0.5; v += bestStep {
		out = append(out, round6(v))
	}
	if len(out) < 2 {
		out = []float64{min, max}
	}
	return out
}

// round6 rounds to 6 decimal places to stabilize label prep.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// FormatEnergyTick provides a compact label for an energy tick value.
func FormatEnergyTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// ContainRect computes where an image of imgW x imgH lands inside a
// view of viewW x viewH under contain-fit scaling. Returns the drawn
// origin, size and scale factor.
func ContainRect(imgW, imgH, viewW, viewH float32) (drawX, drawY, drawW, drawH, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, viewW, viewH, 1
	}
	sx := viewW / imgW
	sy := viewH / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	drawW = imgW * scale
	drawH = imgH * scale
	drawX = (viewW - drawW) / 2
	drawY = (viewH - drawH) / 2
	return
}

// StateCenters approximates the overlay x position of each of n state
// slots on a rendered chart image, mapped into view coordinates.
// leftPad/rightPad are the chart's horizontal paddings in image pixel
// space.
func StateCenters(n int, imgW, leftPad, rightPad, drawX, scale float32) []float32 {
	if n <= 0 {
		return nil
	}
	plotW := imgW - leftPad - rightPad
	if plotW < 1 {
		plotW = imgW
	}
	out := make([]float32, n)
	for i := range out {
		pxImg := leftPad + plotW*(float32(i)+0.5)/float32(n)
		out[i] = drawX + pxImg*scale
	}
	return out
}

// NearestIndex picks the index of the center closest to x.
func NearestIndex(centers []float32, x float32) int {
	best := 0
	bestD := float32(math.MaxFloat32)
	for i, c := range centers {
		d := float32(math.Abs(float64(x - c)))
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}
