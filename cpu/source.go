package cpu

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// FIELD_OP is the operation tag key of a YAML program record.
const FIELD_OP = "op"

// yamlSource is the document layout of a YAML program.
type yamlSource struct {
	Program []yaml.Node `yaml:"program"`
}

// LoadYAML loads a YAML program description:
//
//	program:
//	  - {op: ldc, const: 29, dst_reg: 12}
//	  - {op: write, src_reg: 38, dst_reg: 47}
//
// Every field named by Op.Fields() is required, and range checked.
// On error, no program is returned.
func LoadYAML(input io.Reader) (prog *Program, err error) {
	var doc yamlSource

	err = yaml.NewDecoder(input).Decode(&doc)
	if err == io.EOF {
		err = ErrProgramMissing
	}
	if err != nil {
		return
	}

	if len(doc.Program) == 0 {
		err = ErrProgramMissing
		return
	}

	prog = &Program{}
	for n := range doc.Program {
		node := &doc.Program[n]

		var inst Instruction
		var words []string
		inst, words, err = yamlInstruction(node)
		if err != nil {
			err = &ErrSyntax{LineNo: node.Line, Line: strings.Join(words, " "), Err: err}
			prog = nil
			return
		}

		prog.Append(node.Line, words, inst)
	}

	return
}

// yamlInstruction decodes a single program record.
func yamlInstruction(node *yaml.Node) (inst Instruction, words []string, err error) {
	var record map[string]any

	err = node.Decode(&record)
	if err != nil {
		return
	}

	tag, ok := record[FIELD_OP].(string)
	if !ok {
		err = ErrOperation(fmt.Sprintf("%v", record[FIELD_OP]))
		return
	}
	words = append(words, tag)

	op, err := ParseOp(tag)
	if err != nil {
		return
	}

	fields := op.Fields()
	if len(record) > len(fields)+1 {
		for key := range record {
			known := slices.ContainsFunc(fields, func(fd Field) bool { return fd.Name == key })
			if key != FIELD_OP && !known {
				err = fmt.Errorf("%w: %v", ErrFieldUnknown, key)
				return
			}
		}
	}

	values := make([]uint64, len(fields))
	for n, fd := range fields {
		raw, ok := record[fd.Name]
		if !ok {
			err = fmt.Errorf("%w: %v", ErrFieldMissing, fd.Name)
			return
		}
		values[n], err = yamlValue(fd, raw)
		if err != nil {
			return
		}
		words = append(words, fmt.Sprintf("%v=%v", fd.Name, values[n]))
	}

	inst, err = MakeInstruction(op, values...)

	return
}

// yamlValue converts a decoded YAML scalar to a field value.
func yamlValue(fd Field, raw any) (value uint64, err error) {
	switch v := raw.(type) {
	case int:
		if v < 0 {
			err = fmt.Errorf("%w: %v %v", ErrFieldType, fd.Name, v)
			return
		}
		value = uint64(v)
	case uint64:
		value = v
	default:
		err = fmt.Errorf("%w: %v %v", ErrFieldType, fd.Name, v)
	}
	return
}
