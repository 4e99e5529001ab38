// Package io provides the file formats of the UVM toolchain: the flat
// binary program image, and the JSON data memory dump.
package io

import (
	"io"
	"os"
)

// ReadImage reads a complete binary program image.
// The image has no header; it is the concatenation of the encoded
// instructions.
func ReadImage(r io.Reader) (code []byte, err error) {
	code, err = io.ReadAll(r)
	return
}

// WriteImage writes a binary program image.
func WriteImage(w io.Writer, code []byte) (err error) {
	_, err = w.Write(code)
	return
}

// LoadImage reads a binary program image from a file.
func LoadImage(path string) (code []byte, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	code, err = ReadImage(inf)
	return
}

// SaveImage writes a binary program image to a file.
func SaveImage(path string, code []byte) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil {
			err = cerr
		}
	}()

	err = WriteImage(ouf, code)
	return
}
