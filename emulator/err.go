package emulator

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	ErrConfigKey    = errors.New(f("config key unknown"))
	ErrConfigRange  = errors.New(f("config dump range invalid"))
	ErrConfigEquate = errors.New(f("config equate invalid"))
	ErrSourceFormat = errors.New(f("source format unknown"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

// Error reports the source line, when the fault is inside the listing.
func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return err.Err.Error()
	}
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
