// Package layout plans the storage of a generated native class: the handle
// owning the Go state, the initialization flag and the mirrored property slots.
package layout

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"goqtbridge/internal/bridge"
	"goqtbridge/internal/ir"
)

// Size and alignment of the QObject base (vtable pointer and d-pointer) on LP64.
const (
	baseSize  = 16
	baseAlign = 8
)

// SlotRole says what a slot stores.
type SlotRole string

const (
	HandleSlot SlotRole = "handle"
	FlagSlot   SlotRole = "initialized"
	MirrorSlot SlotRole = "mirror"
)

type Slot struct {
	Role       SlotRole `yaml:"role"`
	Member     string   `yaml:"member"`
	NativeType string   `yaml:"type"`
	Property   string   `yaml:"property,omitempty"`
	Offset     int      `yaml:"offset"`
	Size       int      `yaml:"size"`
	Align      int      `yaml:"align"`
}

// StoragePlan is the computed, immutable layout of one generated class.
// Slots are in declaration order: handle, flag, then mirrors in property order.
type StoragePlan struct {
	Object string `yaml:"object"`
	Slots  []Slot `yaml:"slots"`
	Size   int    `yaml:"size"`
	Align  int    `yaml:"align"`

	mirrors map[string]int
}

// Members every generated class declares besides its mirrors.
const (
	HandleMember = "m_goObj"
	FlagMember   = "m_initialised"
)

// MirrorMember names the member mirroring property.
func MirrorMember(property string) string {
	return "m_" + property
}

type Options struct {
	// AtomicFlag stores the initialization flag as std::atomic_bool.
	AtomicFlag bool
}

// Plan computes the storage plan of a validated object. It cannot fail:
// every property type was resolved by validation.
func Plan(obj *ir.BridgedObject, options Options) *StoragePlan {
	plan := &StoragePlan{Object: obj.Name, Align: baseAlign, mirrors: make(map[string]int)}
	offset := baseSize

	place := func(slot Slot) {
		offset = alignUp(offset, slot.Align)
		slot.Offset = offset
		offset += slot.Size
		if slot.Align > plan.Align {
			plan.Align = slot.Align
		}
		plan.Slots = append(plan.Slots, slot)
	}

	place(Slot{Role: HandleSlot, Member: HandleMember, NativeType: "std::uintptr_t", Size: 8, Align: 8})

	flagType := "bool"
	if options.AtomicFlag {
		flagType = "std::atomic_bool"
	}
	place(Slot{Role: FlagSlot, Member: FlagMember, NativeType: flagType, Size: 1, Align: 1})

	for _, property := range obj.Properties {
		entry, err := bridge.Lookup(property.Type)
		if err != nil {
			panic(fmt.Sprintf("planning unvalidated property %s: %v", property.Name, err))
		}
		if !entry.Mirrored() {
			continue
		}
		plan.mirrors[property.Name] = len(plan.Slots)
		place(Slot{
			Role:       MirrorSlot,
			Member:     MirrorMember(property.Name),
			NativeType: entry.NativeType,
			Property:   property.Name,
			Size:       entry.Size,
			Align:      entry.Align,
		})
	}

	plan.Size = alignUp(offset, plan.Align)
	return plan
}

// Mirror returns the slot mirroring the named property.
func (p *StoragePlan) Mirror(property string) (Slot, bool) {
	index, found := p.mirrors[property]
	if !found {
		return Slot{}, false
	}
	return p.Slots[index], true
}

func (p *StoragePlan) Handle() Slot {
	return p.Slots[0]
}

func (p *StoragePlan) Flag() Slot {
	return p.Slots[1]
}

// Mirrors returns the mirrored slots in property order.
func (p *StoragePlan) Mirrors() []Slot {
	return p.Slots[2:]
}

// WriteYAML dumps the plan for inspection.
func (p *StoragePlan) WriteYAML(writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(p); err != nil {
		return fmt.Errorf("encoding layout of %s: %w", p.Object, err)
	}
	return encoder.Close()
}

func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) / align * align
}
