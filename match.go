package audience

import "slices"

// DeviceTagClass is the tag class applied to tags that carry no tag_class
// attribute.
const DeviceTagClass = "device"

// Device describes the identifying attributes of one device for Match.
type Device struct {
	// Tags maps a tag class (or "group:<name>" for tag groups) to the
	// device's tags in that class. Untagged classes default to DeviceTagClass.
	Tags      map[string][]string
	Aliases   []string
	Segments  []string
	NamedUser string
	// IDs holds platform identifiers keyed by their selector type
	// (TypeAPID, TypeIOSChannel, ...).
	IDs       map[SelectorType]string
	Triggered bool
}

// Match reports whether the device is selected by sel. A nil selector matches
// nothing.
func Match(sel Selector, d Device) bool {
	switch s := sel.(type) {
	case *Atomic:
		if s.typ == TypeTriggered {
			return d.Triggered
		}
		return true
	case *Value:
		return matchValue(s, d)
	case *Compound:
		switch s.typ {
		case TypeNot:
			return !Match(s.children[0], d)
		case TypeAnd:
			for _, c := range s.children {
				if !Match(c, d) {
					return false
				}
			}
			return true
		default:
			for _, c := range s.children {
				if Match(c, d) {
					return true
				}
			}
			return false
		}
	}
	return false
}

func matchValue(s *Value, d Device) bool {
	switch s.typ {
	case TypeTag:
		return slices.Contains(d.Tags[tagBucket(s)], s.value)
	case TypeAlias:
		return slices.Contains(d.Aliases, s.value)
	case TypeSegment:
		return slices.Contains(d.Segments, s.value)
	case TypeNamedUser:
		return d.NamedUser != "" && d.NamedUser == s.value
	default:
		id, ok := d.IDs[s.typ]
		return ok && id == s.value
	}
}

// tagBucket picks the Device.Tags key for a tag selector. A group attribute
// wins over tag_class.
func tagBucket(s *Value) string {
	if g, ok := s.attrs[AttrGroup]; ok {
		return "group:" + g
	}
	if c, ok := s.attrs[AttrTagClass]; ok {
		return c
	}
	return DeviceTagClass
}
