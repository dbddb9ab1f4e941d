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

// ConFlag is the full ConVar/ConCommand flag vocabulary the engine
// understands, undocumented bits included; most never get used by an
// individual feature but the registry needs all of them to interpret
// flags on variables the engine itself already registered.
type ConFlag uint32

const (
	ConUnreg       ConFlag = 1
	ConDevOnly     ConFlag = 1 << 1  // hide unless developer 1 is set
	ConServerSide  ConFlag = 1 << 2  // set con_cmdclient and run on server side
	ConClientDLL   ConFlag = 1 << 3
	ConHidden      ConFlag = 1 << 4  // hide completely, often useful to remove!
	ConProtected   ConFlag = 1 << 5  // don't send to clients (example: password)
	ConSPOnly      ConFlag = 1 << 6
	ConArchive     ConFlag = 1 << 7  // save in config - plugin would need a VDF!
	ConNotify      ConFlag = 1 << 8  // announce changes in game chat
	ConUserInfo    ConFlag = 1 << 9
	ConPrintable   ConFlag = 1 << 10 // do not allow non-printable values
	ConUnlogged    ConFlag = 1 << 11
	ConNoPrint     ConFlag = 1 << 12 // do not attempt to print, contains junk!
	ConReplicate   ConFlag = 1 << 13 // client will use server's value
	ConCheat       ConFlag = 1 << 14 // require sv_cheats 1 to change from default
	ConDemo        ConFlag = 1 << 16 // record value at the start of a demo
	ConNoRecord    ConFlag = 1 << 17 // don't record the command to a demo, ever
	ConNotConn     ConFlag = 1 << 22 // cannot be changed while in-game
	ConSrvExec     ConFlag = 1 << 28 // server can make clients run the command
	ConNoSrvQuery  ConFlag = 1 << 29 // server cannot query the clientside value
	ConCCmdExec    ConFlag = 1 << 30 // ClientCmd() function may run the command
)

// Has reports whether every bit in want is set in f.
func (f ConFlag) Has(want ConFlag) bool {
	return f&want == want
}
