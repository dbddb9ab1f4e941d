// Package entprops implements SST's entity-property code generator
// (SPEC_FULL.md §4.M / Component M): a flat DSL mapping generated variable
// names onto slash-separated network-table paths, compiled into a two-level
// class→property-path radix tree and emitted as a server-class walker.
//
// The parser ports original_source/src/build/mkentprops.c's line DFA
// (states BOL/KEY/KWS/VAL/COM) exactly as internal/gendsl ports
// mkgamedata.c's — the two grammars differ only in that this one rejects
// leading whitespace outright rather than treating it as conditional
// nesting, since entity-property declarations are always flat.
package entprops

import (
	"errors"
	"fmt"
)

var (
	ErrIndentation     = errors.New("entprops: unexpected indentation (declarations are not nested)")
	ErrEmptyKey        = errors.New("entprops: empty variable name")
	ErrMissingValue    = errors.New("entprops: entry has no network path")
	ErrUnterminatedEOF = errors.New("entprops: file does not end with a newline")
	ErrNullByte        = errors.New("entprops: unexpected null byte")
	ErrNoSlash         = errors.New("entprops: network name not in class/property format")
)

// ParseError decorates one of the sentinel errors above with source
// position, matching internal/gendsl's ParseError shape.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// rawEntry is one "<varname> <class>/<prop>[/<prop>...]" declaration.
type rawEntry struct {
	Var  string
	Path string
	File string
	Line int
}

type dfaState int

const (
	stBOL dfaState = iota
	stKEY
	stKWS
	stVAL
	stCOM
)

func classify(c byte) int {
	switch c {
	case ' ', '\t':
		return 1
	case '#':
		return 2
	case '\n':
		return 3
	default:
		return 0
	}
}

// statetrans mirrors mkentprops.c's statetrans[] exactly, except BOL+space
// is an outright error here (ErrIndentation) rather than a valid transition,
// since this grammar has no conditional nesting.
var statetrans = [5][4]dfaState{
	stBOL: {stKEY, -1, stCOM, stBOL},
	stKEY: {stKEY, stKWS, -1, -1},
	stKWS: {stVAL, stKWS, -1, -1},
	stVAL: {stVAL, stVAL, stCOM, stBOL},
	stCOM: {stCOM, stCOM, stCOM, stBOL},
}

func parseFile(filename string, src []byte) ([]rawEntry, error) {
	if len(src) == 0 {
		return nil, nil
	}
	if src[len(src)-1] != '\n' {
		return nil, &ParseError{filename, 0, ErrUnterminatedEOF}
	}

	var entries []rawEntry
	state := stBOL
	line := 1
	keyStart := 0
	var key string
	valStart := -1

	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == 0 {
			return nil, &ParseError{filename, line, ErrNullByte}
		}
		class := classify(c)
		newstate := statetrans[state][class]
		if newstate == -1 {
			switch state {
			case stBOL:
				return entries, &ParseError{filename, line, ErrIndentation}
			case stKEY, stKWS:
				return entries, &ParseError{filename, line, ErrMissingValue}
			default:
				return entries, &ParseError{filename, line, fmt.Errorf("entprops: unexpected character %q", c)}
			}
		}

		switch newstate {
		case stKEY:
			if state != stKEY {
				keyStart = i
			}
		case stKWS:
			if state != stKWS {
				key = string(src[keyStart:i])
			}
		case stVAL:
			if state == stKWS {
				valStart = i
			}
		case stBOL, stCOM:
			if state == stVAL {
				j := i
				for j > 0 && (src[j-1] == ' ' || src[j-1] == '\t') {
					j--
				}
				if len(key) == 0 {
					return entries, &ParseError{filename, line, ErrEmptyKey}
				}
				if valStart < 0 || valStart == j {
					return entries, &ParseError{filename, line, ErrMissingValue}
				}
				path := string(src[valStart:j])
				entries = append(entries, rawEntry{Var: key, Path: path, File: filename, Line: line})
			}
			valStart = -1
		}

		if c == '\n' {
			line++
		}
		state = newstate
	}
	return entries, nil
}

// Parse concatenates parseFile over every named input, in order, stopping
// at the first error.
func Parse(files map[string][]byte, order []string) ([]rawEntry, error) {
	var all []rawEntry
	for _, name := range order {
		ents, err := parseFile(name, files[name])
		all = append(all, ents...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}
