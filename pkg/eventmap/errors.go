package eventmap

import "errors"

// Sentinel errors for the kernel.
var (
	// ErrBooted indicates a boot-phase operation was attempted after Boot.
	ErrBooted = errors.New("kernel already booted")
)
