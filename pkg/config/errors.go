package config

import "strconv"

// Error is a configuration error with location info.
type Error struct {
	Path    string
	Key     string
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	var b []byte
	if e.Path != "" {
		b = append(b, e.Path...)
	} else {
		b = append(b, "config"...)
	}
	if e.Line > 0 {
		b = append(b, " (line "...)
		b = strconv.AppendInt(b, int64(e.Line), 10)
		if e.Column > 0 {
			b = append(b, ", column "...)
			b = strconv.AppendInt(b, int64(e.Column), 10)
		}
		b = append(b, ')')
	}
	b = append(b, ": "...)
	if e.Key != "" {
		b = append(b, e.Key...)
		b = append(b, ": "...)
	}
	b = append(b, e.Message...)
	return string(b)
}

// FindLineColumn finds the line and column number for a byte offset.
func FindLineColumn(data []byte, offset int64) (line, col int) {
	line = 1
	col = 1
	for i := int64(0); i < offset && int(i) < len(data); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
