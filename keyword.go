package audience

import "strings"

// SelectorType is the discriminant of every Selector.
type SelectorType int

const (
	TypeInvalid SelectorType = iota

	// Atomic selectors take no payload.
	TypeAll
	TypeTriggered

	// Compound selectors combine children.
	TypeAnd
	TypeOr
	TypeNot

	// Value selectors match one identifying attribute.
	TypeTag
	TypeAlias
	TypeSegment
	TypeNamedUser
	TypeAPID
	TypeDeviceToken
	TypeDevicePin
	TypeWNS
	TypeMPNS
	TypeIOSChannel
	TypeAndroidChannel
	TypeAmazonChannel
)

// Category groups selector types by payload shape.
type Category int

const (
	CategoryInvalid Category = iota
	CategoryAtomic
	CategoryValue
	CategoryCompound
)

type typeInfo struct {
	keyword  string
	category Category
	// attributes lists the attribute keywords the type accepts.
	attributes []string
}

var typeTable = map[SelectorType]typeInfo{
	TypeAll:            {keyword: "all", category: CategoryAtomic},
	TypeTriggered:      {keyword: "triggered", category: CategoryAtomic},
	TypeAnd:            {keyword: "and", category: CategoryCompound},
	TypeOr:             {keyword: "or", category: CategoryCompound},
	TypeNot:            {keyword: "not", category: CategoryCompound},
	TypeTag:            {keyword: "tag", category: CategoryValue, attributes: []string{AttrTagClass, AttrGroup}},
	TypeAlias:          {keyword: "alias", category: CategoryValue},
	TypeSegment:        {keyword: "segment", category: CategoryValue},
	TypeNamedUser:      {keyword: "named_user", category: CategoryValue},
	TypeAPID:           {keyword: "apid", category: CategoryValue},
	TypeDeviceToken:    {keyword: "device_token", category: CategoryValue},
	TypeDevicePin:      {keyword: "device_pin", category: CategoryValue},
	TypeWNS:            {keyword: "wns", category: CategoryValue},
	TypeMPNS:           {keyword: "mpns", category: CategoryValue},
	TypeIOSChannel:     {keyword: "ios_channel", category: CategoryValue},
	TypeAndroidChannel: {keyword: "android_channel", category: CategoryValue},
	TypeAmazonChannel:  {keyword: "amazon_channel", category: CategoryValue},
}

// Attribute keywords accepted by value selectors.
const (
	AttrTagClass = "tag_class"
	AttrGroup    = "group"
)

// keywords is the lowercase keyword -> type index, built once.
var keywords = func() map[string]SelectorType {
	m := make(map[string]SelectorType, len(typeTable))
	for t, info := range typeTable {
		m[info.keyword] = t
	}
	return m
}()

// LookupType classifies a field name case-insensitively. It reports false for
// anything outside the fixed keyword set, including attribute keywords.
func LookupType(name string) (SelectorType, bool) {
	t, ok := keywords[strings.ToLower(name)]
	return t, ok
}

// LookupAttribute normalizes an attribute keyword for t, reporting false when
// t does not accept it.
func LookupAttribute(t SelectorType, name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, a := range typeTable[t].attributes {
		if a == lower {
			return a, true
		}
	}
	return "", false
}

// isAttributeKeyword reports whether name is an attribute keyword of any type.
func isAttributeKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, info := range typeTable {
		for _, a := range info.attributes {
			if a == lower {
				return true
			}
		}
	}
	return false
}

// Keyword returns the canonical lowercase keyword ("" for TypeInvalid).
func (t SelectorType) Keyword() string { return typeTable[t].keyword }

// Category returns the payload category of t.
func (t SelectorType) Category() Category { return typeTable[t].category }

// AcceptsAttributes reports whether value selectors of t may carry attributes.
func (t SelectorType) AcceptsAttributes() bool { return len(typeTable[t].attributes) > 0 }

// String renders the type in upper case (TAG, AND, ...).
func (t SelectorType) String() string {
	if k := t.Keyword(); k != "" {
		return strings.ToUpper(k)
	}
	return "INVALID"
}

// Types returns every valid selector type in declaration order.
func Types() []SelectorType {
	out := make([]SelectorType, 0, len(typeTable))
	for t := TypeAll; t <= TypeAmazonChannel; t++ {
		out = append(out, t)
	}
	return out
}
