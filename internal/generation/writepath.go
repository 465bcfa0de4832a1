package generation

import (
	"goqtbridge/internal/bridge"
	"goqtbridge/internal/ir"
	"goqtbridge/internal/layout"
)

type writeStep int

const (
	forwardToGo writeStep = iota
	storeMirror
	notifyChange
)

func (s writeStep) String() string {
	switch s {
	case forwardToGo:
		return "forward"
	case storeMirror:
		return "store mirror"
	case notifyChange:
		return "notify"
	default:
		return "unknown"
	}
}

// writePath is the ordered plan of one property write: hand the value to Go
// when the property is writable, refresh the mirror when there is one, then
// emit the notify signal once. Read-only mirrored properties only refresh and
// notify; Go uses them to publish a new value.
type writePath struct {
	Property ir.Property
	Entry    bridge.TypeBridge
	Mirror   string // member storing the mirror, empty when not mirrored
	Notify   string // empty when the property has no notify signal
	Steps    []writeStep
}

func planWrite(object *ir.BridgedObject, property ir.Property, plan *layout.StoragePlan) writePath {
	path := writePath{
		Property: property,
		Entry:    lookup(property.Type),
		Steps:    make([]writeStep, 0, 3),
	}
	if property.Writable() {
		path.Steps = append(path.Steps, forwardToGo)
	}
	if slot, found := plan.Mirror(property.Name); found {
		path.Mirror = slot.Member
		path.Steps = append(path.Steps, storeMirror)
	}
	if property.Notify >= 0 {
		path.Notify = object.Signals[property.Notify].Name
		path.Steps = append(path.Steps, notifyChange)
	}
	return path
}

// settable reports properties Go can set: writable ones and mirrored ones.
func settable(property ir.Property, plan *layout.StoragePlan) bool {
	_, mirrored := plan.Mirror(property.Name)
	return property.Writable() || mirrored
}

// writeMember is the private member holding the write path when Go cannot
// go through the public setter: the setter is guarded or there is none.
func (p writePath) writeMember() string {
	return "write" + ir.Exported(p.Property.Name)
}

func (p writePath) render(w *sourceWriter, s symbols) {
	for _, step := range p.Steps {
		switch step {
		case forwardToGo:
			w.line("  %s(m_goObj, %s);", s.set(p.Property.Name), toAbi(p.Entry, "value"))
		case storeMirror:
			w.line("  %s = value;", p.Mirror)
		case notifyChange:
			w.line("  Q_EMIT %s();", p.Notify)
		}
	}
}
