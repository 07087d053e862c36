package gpr

import "fmt"

// BadAckError is returned when the radar answers the start command
// with anything but the expected acknowledge sequence.
type BadAckError struct {
	got []byte
}

func (b *BadAckError) Error() string {
	return fmt.Sprintf("unexpected acknowledge from radar: %x", b.got)
}

func (b *BadAckError) Is(e error) bool {
	_, ok := e.(*BadAckError)
	return ok
}

// DisconnectedError wraps a transport failure mid-stream.
type DisconnectedError struct {
	msg string
}

func (d *DisconnectedError) Error() string {
	return d.msg
}

func (d *DisconnectedError) Is(e error) bool {
	_, ok := e.(*DisconnectedError)
	return ok
}

func newDisconnectedError(format string, args ...any) error {
	return &DisconnectedError{msg: fmt.Sprintf(format, args...)}
}
