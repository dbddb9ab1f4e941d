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

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// ErrAlreadyRegistered is returned by RegisterVar/RegisterCmd for a name
// that's already present, whether ours or one the engine itself owns.
var ErrAlreadyRegistered = fmt.Errorf("sst: name already registered")

// ConRegistry is the process-wide lookup table backing con_findvar and
// con_findcmd. It is guarded by a mutex exactly the way the teacher's
// symtab.go guards its intern table — both exist because multiple
// features' init/event-handler code can touch the table from whatever
// goroutine the host calls into, not because the original engine itself
// needs locking (Source's own cvar dictionary is single-threaded; SST
// adds the lock purely for its own Go-side concurrency, resolving the
// registry-reentrancy open question in favour of "just take a mutex").
type ConRegistry struct {
	mu   sync.Mutex
	vars map[string]*ConVar
	cmds map[string]*ConCommand
}

// globalConsole is a process-wide registry instance returned by Console.
// The Adapter keeps its own registry (Adapter.Console) and neither fills
// nor resets this one.
var globalConsole = NewConRegistry()

// Console returns the process-wide registry.
func Console() *ConRegistry { return globalConsole }

// NewConRegistry returns an empty registry; tests construct their own
// instance rather than sharing the process-wide one.
func NewConRegistry() *ConRegistry {
	return &ConRegistry{
		vars: make(map[string]*ConVar),
		cmds: make(map[string]*ConCommand),
	}
}

// FindVar returns a registered variable by name, or nil if none exists —
// the Go analogue of con_findvar.
func (r *ConRegistry) FindVar(name string) *ConVar {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vars[name]
}

// FindCmd returns a registered command by name, or nil if none exists —
// the Go analogue of con_findcmd.
func (r *ConRegistry) FindCmd(name string) *ConCommand {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmds[name]
}

// RegisterVar makes v visible to FindVar, per con_regvar. The generated
// zzRegisterConsole calls it from sst_Load for every feature-declared
// variable, before any feature has initialised.
func (r *ConRegistry) RegisterVar(v *ConVar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.vars[v.Name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, v.Name)
	}
	v.registered = true
	r.vars[v.Name] = v
	glog.V(2).Infof("sst: registered cvar %q", v.Name)
	return nil
}

// RegisterCmd makes c visible to FindCmd, per con_regcmd. It registers
// unconditionally and does not look at the owning feature's status; the
// generated zzRegisterConsole calls it from sst_Load, before any feature
// has initialised, so a feature's commands are registered whether or not
// its init later succeeds.
func (r *ConRegistry) RegisterCmd(c *ConCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.cmds[c.Name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, c.Name)
	}
	c.registered = true
	r.cmds[c.Name] = c
	glog.V(2).Infof("sst: registered command %q", c.Name)
	return nil
}

// HideFeatureVars sets ConHidden on every named variable that is
// registered. Nothing in this tree calls it, so the variables of a
// feature that fails to initialise stay visible.
func (r *ConRegistry) HideFeatureVars(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range names {
		if v, ok := r.vars[n]; ok {
			v.Flags |= ConHidden
		}
	}
}
