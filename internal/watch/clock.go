// SPDX-License-Identifier: MPL-2.0

package watch

import "time"

type (
	// Clock abstracts time so debounce decisions can be tested deterministically.
	Clock interface {
		Now() time.Time
	}

	// RealClock reads the system clock.
	RealClock struct{}
)

// Now returns time.Now().
func (RealClock) Now() time.Time { return time.Now() }
