package nettools

import "time"

// sleepFor is what the poll strategies degrade to without a descriptor.
func sleepFor(d time.Duration) func(int) error {
	if d > 10*time.Millisecond {
		d = 10 * time.Millisecond
	}
	return func(int) error {
		time.Sleep(d)
		return nil
	}
}
