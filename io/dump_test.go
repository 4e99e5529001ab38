package io

import (
	"bytes"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDump(t *testing.T) {
	assert := assert.New(t)

	cells := map[int64]int64{300: 1, 10: 2, 0: 3, 255: 4, -1: 5, 2: -6}

	dump := NewDump(0, 255, maps.All(cells))
	assert.Equal(int64(0), dump.Start)
	assert.Equal(int64(255), dump.End)
	assert.Equal([]Cell{{0, 3}, {2, -6}, {10, 2}, {255, 4}}, dump.Cells)
	assert.Equal(map[int64]int64{0: 3, 2: -6, 10: 2, 255: 4}, dump.Map())

	dump = NewDump(1, 1, maps.All(cells))
	assert.Empty(dump.Cells)
}

func TestWriteDump(t *testing.T) {
	assert := assert.New(t)

	dump := NewDump(0, 255, maps.All(map[int64]int64{3: 7, 20: -1, 100: 0}))

	var buff bytes.Buffer
	assert.NoError(WriteDump(&buff, dump))

	expected := strings.Join([]string{
		"{",
		`    "3": 7,`,
		`    "20": -1,`,
		`    "100": 0`,
		"}",
		"",
	}, "\n")
	assert.Equal(expected, buff.String())

	buff.Reset()
	assert.NoError(WriteDump(&buff, NewDump(0, 255, maps.All(map[int64]int64{}))))
	assert.Equal("{}\n", buff.String())
}

func TestReadDump(t *testing.T) {
	assert := assert.New(t)

	dump, err := ReadDump(strings.NewReader(`{"20": -1, "3": 7}`))
	assert.NoError(err)
	assert.Equal([]Cell{{3, 7}, {20, -1}}, dump.Cells)
	assert.Equal(int64(DUMP_START), dump.Start)
	assert.Equal(int64(DUMP_END), dump.End)

	dump, err = ReadDump(strings.NewReader(`{"1000": 1}`))
	assert.NoError(err)
	assert.Equal(int64(1000), dump.End)

	dump, err = ReadDump(strings.NewReader(`{"x": 1}`))
	assert.Nil(dump)
	assert.True(errors.Is(err, ErrDumpAddress))

	_, err = ReadDump(strings.NewReader(`[1, 2]`))
	assert.Error(err)
}

func TestDumpFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "dump.json")
	dump := NewDump(0, 255, maps.All(map[int64]int64{1: 1, 2: 4}))

	assert.NoError(SaveDump(path, dump))

	inf, err := os.Open(path)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}
	defer inf.Close()

	read, err := ReadDump(inf)
	assert.NoError(err)
	assert.Equal(dump.Cells, read.Cells)
}

func TestParseRange(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text  string
		start int64
		end   int64
		err   error
	}){
		{"0-255", 0, 255, nil},
		{" 10-10 ", 10, 10, nil},
		{"0x10-0x20", 16, 32, nil},
		{"5", 0, 0, ErrRangeSyntax},
		{"a-5", 0, 0, ErrRangeSyntax},
		{"5-b", 0, 0, ErrRangeSyntax},
		{"9-3", 0, 0, ErrRangeOrder},
	}

	for _, entry := range table {
		start, end, err := ParseRange(entry.text)
		if entry.err != nil {
			assert.True(errors.Is(err, entry.err), "%q: %v", entry.text, err)
			continue
		}
		assert.NoError(err, entry.text)
		assert.Equal(entry.start, start, entry.text)
		assert.Equal(entry.end, end, entry.text)
	}
}
