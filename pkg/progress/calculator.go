/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package progress

import (
	"math"
	"strconv"
)

// Percent returns the raw percentage of r.Total that has been received.
// The boolean is false when no total is known, in which case no value should be displayed.
// Formula: Received * 100 / Total
func Percent(r Reading) (float64, bool) {
	if r.Total <= 0 {
		return 0.0, false
	}

	// Not started yet: ignore whatever the division would say
	if r.Received <= 0 {
		return 0.0, true
	}

	return float64(r.Received) * 100.0 / float64(r.Total), true
}

// DisplayValue converts a raw percentage into the value shown to the user.
// Values at or above CompleteThreshold are shown as Complete, anything else is
// rounded to one decimal place.
func DisplayValue(percent float64) float64 {
	if percent >= CompleteThreshold {
		return Complete
	}
	return math.Round(percent*10) / 10
}

// Value is Percent followed by DisplayValue.
func Value(r Reading) (float64, bool) {
	percent, ok := Percent(r)
	if !ok {
		return 0.0, false
	}
	return DisplayValue(percent), true
}

// Format renders a display value: "100" when complete, one decimal place otherwise.
func Format(value float64) string {
	if value >= Complete {
		return "100"
	}
	return strconv.FormatFloat(value, 'f', 1, 64)
}
