// Package fme holds the find/match/edit data types understood by the mixin
// engine. The compiler only builds these values; walking markup and applying
// the edits is the engine's job.
package fme

import "fmt"

// MatchKind selects which predicate a Match represents.
type MatchKind int

const (
	HasTag            MatchKind = iota // element name equals Value
	HasAttributeValue                  // attribute Key is present with Value
)

func (k MatchKind) String() string {
	switch k {
	case HasTag:
		return "HasTag"
	case HasAttributeValue:
		return "HasAttributeValue"
	default:
		return "Unknown"
	}
}

func (k MatchKind) MarshalText() ([]byte, error) {
	if k != HasTag && k != HasAttributeValue {
		return nil, fmt.Errorf("unknown match kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *MatchKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "HasTag":
		*k = HasTag
	case "HasAttributeValue":
		*k = HasAttributeValue
	default:
		return fmt.Errorf("unknown match kind %q", string(b))
	}
	return nil
}

// EditKind selects which operation an Edit represents.
type EditKind int

const (
	AddAttribute EditKind = iota // add or overwrite attribute Key with Value
)

func (k EditKind) String() string {
	if k == AddAttribute {
		return "AddAttribute"
	}
	return "Unknown"
}

func (k EditKind) MarshalText() ([]byte, error) {
	if k != AddAttribute {
		return nil, fmt.Errorf("unknown edit kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *EditKind) UnmarshalText(b []byte) error {
	if string(b) != "AddAttribute" {
		return fmt.Errorf("unknown edit kind %q", string(b))
	}
	*k = AddAttribute
	return nil
}

// Match is a condition the target element must already satisfy.
type Match struct {
	Kind  MatchKind `yaml:"kind" json:"kind"`
	Key   string    `yaml:"key,omitempty" json:"key,omitempty"`
	Value string    `yaml:"value" json:"value"`
}

// MatchTag returns a name-equality predicate.
func MatchTag(tag string) Match {
	return Match{Kind: HasTag, Value: tag}
}

// MatchAttr returns an attribute-value predicate.
func MatchAttr(key, value string) Match {
	return Match{Kind: HasAttributeValue, Key: key, Value: value}
}

func (m Match) String() string {
	if m.Kind == HasTag {
		return fmt.Sprintf("HasTag(%q)", m.Value)
	}
	return fmt.Sprintf("%s(%q, %q)", m.Kind, m.Key, m.Value)
}

// Edit is an instruction applied to a matched element.
type Edit struct {
	Kind  EditKind `yaml:"kind" json:"kind"`
	Key   string   `yaml:"key" json:"key"`
	Value string   `yaml:"value" json:"value"`
}

// SetAttr returns an add-or-overwrite attribute edit.
func SetAttr(key, value string) Edit {
	return Edit{Kind: AddAttribute, Key: key, Value: value}
}

func (e Edit) String() string {
	return fmt.Sprintf("%s(%q, %q)", e.Kind, e.Key, e.Value)
}

// Find is reserved for locating elements by something other than matching.
// The compiler never emits one; the list is always empty.
type Find struct {
	Kind  string `yaml:"kind" json:"kind"`
	Value string `yaml:"value" json:"value"`
}

type FindElement struct {
	Find []Find `yaml:"find" json:"find"`
}

type MatchElement struct {
	When []Match `yaml:"when" json:"when"`
}

type EditElement struct {
	Edit []Edit `yaml:"edit" json:"edit"`
}

// Rule is the find/match/edit triple produced for one element pattern.
type Rule struct {
	Find  FindElement  `yaml:"find" json:"find"`
	Match MatchElement `yaml:"match" json:"match"`
	Edit  EditElement  `yaml:"edit" json:"edit"`
}

// Spec is the nested form: the rule for one element followed by the specs
// of its children in source order.
type Spec struct {
	Root     Rule    `yaml:"root" json:"root"`
	Children []*Spec `yaml:"children,omitempty" json:"children,omitempty"`
}

// FindMatchEditElement is the flat form consumed by the engine: every rule
// of a Spec in document order.
type FindMatchEditElement struct {
	FME []Rule `yaml:"fme" json:"fme"`
}

// Flatten lists the rules of s in pre-order, parent before children.
func (s *Spec) Flatten() FindMatchEditElement {
	var out FindMatchEditElement
	var walk func(*Spec)
	walk = func(n *Spec) {
		if n == nil {
			return
		}
		out.FME = append(out.FME, n.Root)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(s)
	return out
}

// Len counts the element patterns in s.
func (s *Spec) Len() int {
	if s == nil {
		return 0
	}
	n := 1
	for _, c := range s.Children {
		n += c.Len()
	}
	return n
}
