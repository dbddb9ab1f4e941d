// Copyright © 2023 Michael Smith <mikesmiffy128@gmail.com>
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

import "unsafe"

// PropDescriptor names one segment of a network property path below a
// ClassDescriptor's root. VarPtr is non-nil when this exact path captures
// a variable (the generator's "duplicate property name" check guarantees
// at most one declared variable per path); Children holds further segments
// to match inside a nested SendTable.
type PropDescriptor struct {
	Name     string
	VarPtr   *int
	Children []PropDescriptor
}

// ClassDescriptor is one ServerClass's declared root property set, as
// emitted into zz_entprops_gen.go's entPropsClasses table.
type ClassDescriptor struct {
	Name  string
	Props []PropDescriptor
}

// ServerClassLayout carries the host's struct-field byte offsets for
// ServerClass, SendTable and SendProp, each itself normally a gamedata
// entry (GamedataStore.Lookup) since the layout is game/engine-specific.
type ServerClassLayout struct {
	ClassNext, ClassName, ClassTable int

	TableNProps, TableProps int
	PropSize                int

	PropVarName, PropOffset, PropType, PropSubtable int
	DataTablePropType                               int32
}

func loadPtr(p unsafe.Pointer, off int) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Add(p, off))
}

func loadI32At(p unsafe.Pointer, off int) int32 {
	return loadS32(unsafe.Slice((*byte)(unsafe.Add(p, off)), 4))
}

func loadCString(p unsafe.Pointer) string {
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}

// WalkServerClasses walks the host's ServerClass linked list starting at
// firstClass, matching each class's declared name against classes and, for
// each match, walking its SendTable to resolve every declared variable's
// cumulative byte offset. It stops early once every class in classes has
// been visited, mirroring the original generator's need-counted loop.
func WalkServerClasses(firstClass unsafe.Pointer, lo ServerClassLayout, classes []ClassDescriptor) {
	byName := make(map[string]*ClassDescriptor, len(classes))
	for i := range classes {
		byName[classes[i].Name] = &classes[i]
	}
	need := len(byName)
	for p := firstClass; p != nil && need > 0; p = loadPtr(p, lo.ClassNext) {
		name := loadCString(loadPtr(p, lo.ClassName))
		cd, ok := byName[name]
		if !ok {
			continue
		}
		table := loadPtr(p, lo.ClassTable)
		walkSendTable(table, lo, cd.Props, 0)
		need--
	}
}

// walkSendTable scans one SendTable's properties, matching each against
// props and recursing into nested subtables when a matched property itself
// has children, accumulating baseoff across nesting levels exactly as
// mkentprops.c's generated "baseoff" parameter threads through subtables.
func walkSendTable(table unsafe.Pointer, lo ServerClassLayout, props []PropDescriptor, baseoff int) {
	if table == nil || len(props) == 0 {
		return
	}
	byName := make(map[string]*PropDescriptor, len(props))
	for i := range props {
		byName[props[i].Name] = &props[i]
	}
	need := len(byName)
	nprops := int(loadI32At(table, lo.TableNProps))
	propsBase := loadPtr(table, lo.TableProps)
	for i := 0; i < nprops && need > 0; i++ {
		sp := unsafe.Add(propsBase, i*lo.PropSize)
		name := loadCString(loadPtr(sp, lo.PropVarName))
		pd, ok := byName[name]
		if !ok {
			continue
		}
		off := baseoff + int(loadI32At(sp, lo.PropOffset))
		if pd.VarPtr != nil {
			*pd.VarPtr = off
		}
		if len(pd.Children) > 0 && loadI32At(sp, lo.PropType) == lo.DataTablePropType {
			sub := loadPtr(sp, lo.PropSubtable)
			walkSendTable(sub, lo, pd.Children, off)
		}
		need--
	}
}
