package scan

import (
	"context"
	"errors"
)

// --- Error Definitions ---
var (
	ErrHardwareUnsupported = errors.New("proximity reader not supported on this device")
	ErrHardwareDisabled    = errors.New("proximity reader is disabled")
	ErrScanCancelled       = errors.New("scan cancelled")
	ErrScanTimedOut        = errors.New("scan timed out")
	ErrTagUnreadable       = errors.New("tag detected but no identifier could be read")
	ErrScanInProgress      = errors.New("a scan is already in progress")
	ErrWorkflowActive      = errors.New("cannot switch scan mode mid-workflow")
	ErrMachineNotFound     = errors.New("no machine registered for this identifier")
)

// TagReader is the proximity-read hardware capability (an NFC reader on
// mobile hardware). The capability is exclusively owned between Acquire
// and Release; implementations block in Read until a tag is presented
// or the context ends. The actual driver is outside this module.
type TagReader interface {
	Supported() bool
	Enabled() bool
	Acquire(ctx context.Context) error
	Read(ctx context.Context) (string, error)
	Release()
}

// CodeCapturer is the camera-capture collaborator for optical codes.
// It returns a single decoded string; the capture UI itself is external.
type CodeCapturer interface {
	Capture(ctx context.Context) (string, error)
}

// UnsupportedReader is the TagReader used where no proximity hardware
// exists (headless and desktop builds). Every scan attempt reports
// ErrHardwareUnsupported.
type UnsupportedReader struct{}

func (UnsupportedReader) Supported() bool               { return false }
func (UnsupportedReader) Enabled() bool                 { return false }
func (UnsupportedReader) Acquire(context.Context) error { return ErrHardwareUnsupported }

func (UnsupportedReader) Read(context.Context) (string, error) {
	return "", ErrHardwareUnsupported
}

func (UnsupportedReader) Release() {}
