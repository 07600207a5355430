// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"sync"
	"testing"
	"time"

	"github.com/peter-r-g/inputactions/internal/testutil"
)

func TestDebouncer_Accept(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		offsets []time.Duration // event times relative to construction
		want    []bool
	}{
		{
			name:    "first event right after creation is accepted",
			offsets: []time.Duration{0},
			want:    []bool{true},
		},
		{
			name:    "first event within bound of creation is accepted",
			offsets: []time.Duration{50 * time.Millisecond, 80 * time.Millisecond},
			want:    []bool{true, false},
		},
		{
			name:    "events 50ms apart yield one acceptance",
			offsets: []time.Duration{200 * time.Millisecond, 250 * time.Millisecond},
			want:    []bool{true, false},
		},
		{
			name:    "events 200ms apart yield two acceptances",
			offsets: []time.Duration{200 * time.Millisecond, 400 * time.Millisecond},
			want:    []bool{true, true},
		},
		{
			name:    "exactly the bound is accepted",
			offsets: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond},
			want:    []bool{true, true},
		},
		{
			name: "dropped events do not reset the window",
			offsets: []time.Duration{
				200 * time.Millisecond,
				260 * time.Millisecond,
				300 * time.Millisecond,
			},
			want: []bool{true, false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clock := testutil.NewFakeClock(time.Time{})
			start := clock.Now()
			d := NewDebouncer(clock, 100*time.Millisecond)

			for i, off := range tt.offsets {
				if got := d.Accept(start.Add(off)); got != tt.want[i] {
					t.Errorf("Accept(+%v) = %v, want %v", off, got, tt.want[i])
				}
			}
		})
	}
}

func TestNewDebouncer_Defaults(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(nil, 0)
	if d.Bound() != DefaultDebounce {
		t.Errorf("Bound() = %v, want %v", d.Bound(), DefaultDebounce)
	}
}

func TestDebouncer_ConcurrentAccept(t *testing.T) {
	t.Parallel()

	clock := testutil.NewFakeClock(time.Time{})
	d := NewDebouncer(clock, time.Second)
	at := clock.Now().Add(2 * time.Second)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.Accept(at) {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("accepted = %d, want exactly 1", accepted)
	}
}
