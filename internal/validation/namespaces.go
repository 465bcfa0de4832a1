package validation

import (
	"strings"

	"goqtbridge/internal/bridge"
	"goqtbridge/internal/diagnostic"
	"goqtbridge/internal/ir"
	"goqtbridge/internal/layout"
	"goqtbridge/internal/metadata"
)

// generatedMember is one declared member together with every name the
// emitters generate for it.
type generatedMember struct {
	kind  string
	name  string
	pos   metadata.Position
	names []string // "native:<name>", "member:<name>", "go:<name>" or "static:<name>"
}

func (m generatedMember) label() string {
	return m.kind + " " + m.name
}

func membersOf(obj *ir.BridgedObject) []generatedMember {
	members := make([]generatedMember, 0, len(obj.Properties)+len(obj.Invokables)+len(obj.Signals))

	for _, property := range obj.Properties {
		names := []string{"native:" + property.Read, "go:" + ir.Exported(property.Name)}
		if property.Writable() {
			names = append(names, "native:"+property.Write, "go:Set"+ir.Exported(property.Name))
		}
		// Go sets writable and mirrored properties, through a private write
		// routine when it cannot use the public setter.
		if property.Writable() || mirrored(property) {
			names = append(names, "native:write"+ir.Exported(property.Name))
		}
		if mirrored(property) {
			names = append(names, "member:"+layout.MirrorMember(property.Name))
		}
		members = append(members, generatedMember{kind: "property", name: property.Name, pos: property.Pos, names: names})
	}

	for _, invokable := range obj.Invokables {
		goName := "go:" + ir.Exported(invokable.Name)
		if invokable.Static {
			goName = "static:" + ir.Exported(invokable.Name)
		}
		members = append(members, generatedMember{
			kind:  "invokable",
			name:  invokable.Name,
			pos:   invokable.Pos,
			names: []string{"native:" + invokable.Name, "member:" + invokable.Name, goName},
		})
	}

	for _, signal := range obj.Signals {
		members = append(members, generatedMember{
			kind:  "signal",
			name:  signal.Name,
			pos:   signal.Pos,
			names: []string{"native:" + signal.Name, "member:" + signal.Name},
		})
	}

	return members
}

// namespaces reports members whose generated names clash with another
// member or with names the generated code already uses. Each clashing pair
// is reported once; same-kind duplicates are left to duplicates.
func (v *validator) namespaces() {
	members := membersOf(v.object)
	owners := make(map[string]int)
	reported := make(map[[2]int]bool)

	for i, member := range members {
		if member.kind == "property" && reservedNative[member.name] {
			v.report(diagnostic.ReservedName, member.label(), member.pos, "QObject already has a property named %q", member.name)
		} else {
			for _, name := range member.names {
				if reserved(name) {
					v.report(diagnostic.ReservedName, member.label(), member.pos, "generated name %q is reserved", strip(name))
					break
				}
			}
		}

		for _, name := range member.names {
			j, taken := owners[name]
			if !taken {
				owners[name] = i
				continue
			}

			other := members[j]
			pair := [2]int{j, i}
			if reported[pair] || j == i || (other.kind == member.kind && other.name == member.name) {
				continue
			}
			reported[pair] = true
			v.report(diagnostic.DuplicateName, member.label(), member.pos,
				"generated name %q collides with %s", strip(name), other.label())
		}
	}
}

func mirrored(property ir.Property) bool {
	entry, err := bridge.Lookup(property.Type)
	return err == nil && entry.Mirrored()
}

func reserved(name string) bool {
	switch {
	case strings.HasPrefix(name, "native:"):
		return reservedNative[strip(name)]
	case strings.HasPrefix(name, "member:"):
		return strip(name) == layout.HandleMember || strip(name) == layout.FlagMember
	case strings.HasPrefix(name, "go:"):
		return reservedGo[strip(name)]
	default:
		return false
	}
}

func strip(name string) string {
	return name[strings.Index(name, ":")+1:]
}

func (v *validator) report(kind diagnostic.Kind, member string, pos metadata.Position, format string, args ...interface{}) {
	v.violations.Addf(kind, member, pos.Line, pos.Column, format, args...)
}
