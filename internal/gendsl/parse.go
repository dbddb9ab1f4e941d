// Package gendsl implements SST's gamedata code generator (SPEC_FULL.md
// §4.L / Component L): a declarative, indentation-sensitive DSL describing
// per-game offsets and v-table indices, compiled into a Go source file
// defining a table of sst.GamedataDescriptor values.
//
// The parser ports original_source/src/build/mkgamedata.c's line-oriented
// DFA (states BOL/KEY/KWS/VAL/COM, byte-at-a-time transitions keyed on
// {any, space-or-tab, '#', '\n'}) near-verbatim, operating on []byte lines
// per SPEC_FULL.md §4.L's grounding note; rule_parser.go's byte-slice
// scanning idiom is the model for keeping this allocation-light.
package gendsl

import (
	"errors"
	"fmt"
)

// Errors named per SPEC_FULL.md §12's "mkgamedata.c's excessive-indentation
// and missing-value diagnostics" supplement: the original dies with a
// generic message string; here each distinct failure gets its own
// sentinel so callers (cmd/sstgen, tests) can errors.Is against them.
var (
	ErrSpaceIndent     = errors.New("gendsl: space used for indentation (tabs only)")
	ErrExcessiveIndent = errors.New("gendsl: indentation jumped by more than one level")
	ErrMissingValue    = errors.New("gendsl: entry has no value and no conditionals")
	ErrNestingTooDeep  = errors.New("gendsl: exceeded max nesting level (255)")
	ErrEmptyKey        = errors.New("gendsl: empty key")
	ErrUnterminatedEOF = errors.New("gendsl: file does not end with a newline")
	ErrNullByte        = errors.New("gendsl: unexpected null byte")
)

const maxNesting = 255

// ParseError decorates one of the sentinel errors above with its source
// file and line number; no column is recorded.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// rawEntry is the direct Go analogue of mkgamedata.c's parallel
// tags[]/exprs[]/indents[] arrays: one row per non-blank, non-comment
// "key value" line, in file order.
type rawEntry struct {
	Key    string
	Expr   string // "" if no value was given on this line
	Indent int
	File   string
	Line   int
}

// dfa states, named exactly as the original's BOL/KEY/KWS/VAL/COM enum.
type dfaState int

const (
	stBOL dfaState = iota
	stKEY
	stKWS
	stVAL
	stCOM
)

// classify buckets a byte into the four transition-table columns the
// original's switch on `c` encodes: any, space-or-tab, '#', '\n'.
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

// statetrans ports the original's `statetrans[]` table: statetrans[state][class].
var statetrans = [5][4]dfaState{
	stBOL: {stKEY, stBOL, stCOM, stBOL},
	stKEY: {stKEY, stKWS, stCOM, stBOL},
	stKWS: {stVAL, stKWS, stCOM, stBOL},
	stVAL: {stVAL, stVAL, stCOM, stBOL},
	stCOM: {stCOM, stCOM, stCOM, stBOL},
}

// parseFile runs the line DFA over one input file's contents, returning
// the flat entry list or the first diagnosed error.
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
	indent := 0
	keyStart := 0
	var key string
	valStart := -1

	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == 0 {
			return nil, &ParseError{filename, line, ErrNullByte}
		}
		if c == ' ' && state == stBOL {
			return entries, &ParseError{filename, line, ErrSpaceIndent}
		}
		class := classify(c)
		newstate := statetrans[state][class]

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
		case stBOL:
			if state == stBOL {
				indent++
				if indent > maxNesting {
					return entries, &ParseError{filename, line, ErrNestingTooDeep}
				}
			}
			fallthrough
		case stCOM:
			if state != stBOL {
				if state != stCOM {
					j := i
					for j > 0 && (src[j-1] == ' ' || src[j-1] == '\t') {
						j--
					}
					var expr string
					if valStart >= 0 {
						expr = string(src[valStart:j])
					}
					if state == stKEY {
						// the line ended (or a comment began) right after
						// the key, so KWS never captured it.
						key = string(src[keyStart:i])
					}
					if len(key) == 0 {
						return entries, &ParseError{filename, line, ErrEmptyKey}
					}
					if len(entries) > 0 {
						prev := entries[len(entries)-1]
						if indent > prev.Indent+1 {
							return entries, &ParseError{filename, line, ErrExcessiveIndent}
						}
						if indent == prev.Indent && prev.Expr == "" {
							return entries, &ParseError{filename, line - 1, ErrMissingValue}
						}
					} else if indent > 0 {
						return entries, &ParseError{filename, line, ErrExcessiveIndent}
					}
					entries = append(entries, rawEntry{
						Key: key, Expr: expr, Indent: indent,
						File: filename, Line: line,
					})
				}
				valStart = -1
			}
		}

		if c == '\n' {
			indent = 0
			line++
		}
		state = newstate
	}
	return entries, nil
}

// Parse runs parseFile over every named input and concatenates the
// resulting entry streams, mirroring the original's multi-file
// concatenation into a single sbase buffer (cmd/sstgen supplies one
// call per configured gamedata source file).
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
