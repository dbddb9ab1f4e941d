// Copyright © Michael Smith <mikesmiffy128@gmail.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted, provided that the above
// copyright notice and this permission notice appear in all copies.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.

package sst

// maxComplete/maxCompleteLen mirror CON_CMD_MAXCOMPLETE/CON_CMD_MAXCOMPLLEN:
// the engine's fixed-size autocompletion buffer shape.
const (
	maxComplete    = 64
	maxCompleteLen = 64
)

// CompletionFunc suggests arguments for a partially-typed command; it
// returns at most maxComplete full command lines, truncated to
// maxCompleteLen bytes each the way the engine's own buffer would.
//
// ConCommand.Completion can hold one, but the registry never calls it and
// no command in this tree sets it.
type CompletionFunc func(partial string) []string

// ConCommand is a named action invokable from the in-game console, the
// counterpart of con_cmd. Only our own commands ever populate Callback —
// commands the registry discovers already registered by the engine are
// exposed read-only (see ConCommand.Foreign).
type ConCommand struct {
	Name  string
	Help  string
	Flags ConFlag

	Callback   func(argv []string)
	Completion CompletionFunc

	// Foreign is true for commands the registry found already registered
	// by the engine rather than ones this plugin defined; RegisterCmd
	// refuses to re-register over one.
	Foreign bool

	registered bool
}

// IsRegistered reports whether RegisterCmd has been called for this
// command.
func (c *ConCommand) IsRegistered() bool { return c.registered }

// Invoke runs the command's callback with the given argument vector
// (argv[0] is the command name itself, matching con_cmdcb's contract).
func (c *ConCommand) Invoke(argv []string) {
	if c.Callback != nil {
		c.Callback(argv)
	}
}
