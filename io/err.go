package io

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Dump errors
	ErrRangeSyntax = errors.New(f("range syntax"))
	ErrRangeOrder  = errors.New(f("range start after end"))
	ErrDumpAddress = errors.New(f("dump address invalid"))
)
