package fme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func rule(when ...Match) Rule {
	return Rule{
		Find:  FindElement{Find: []Find{}},
		Match: MatchElement{When: when},
		Edit:  EditElement{Edit: []Edit{}},
	}
}

func TestFlatten(t *testing.T) {
	t.Parallel()
	spec := &Spec{
		Root: rule(MatchTag("a")),
		Children: []*Spec{
			{
				Root:     rule(MatchTag("b")),
				Children: []*Spec{{Root: rule(MatchTag("c"))}},
			},
			{Root: rule(MatchTag("d"))},
		},
	}

	flat := spec.Flatten()
	require.Len(t, flat.FME, 4)
	for i, tag := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, tag, flat.FME[i].Match.When[0].Value)
	}
	assert.Equal(t, 4, spec.Len())

	var empty *Spec
	assert.Empty(t, empty.Flatten().FME)
	assert.Equal(t, 0, empty.Len())
}

func TestKindText(t *testing.T) {
	t.Parallel()
	for _, k := range []MatchKind{HasTag, HasAttributeValue} {
		text, err := k.MarshalText()
		require.NoError(t, err)

		var back MatchKind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
	}

	_, err := MatchKind(7).MarshalText()
	assert.Error(t, err)

	var edit EditKind
	assert.Error(t, edit.UnmarshalText([]byte("RemoveAttribute")))
	require.NoError(t, edit.UnmarshalText([]byte("AddAttribute")))
	assert.Equal(t, AddAttribute, edit)
}

func TestStrings(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `HasTag("p")`, MatchTag("p").String())
	assert.Equal(t, `HasAttributeValue("id", "a")`, MatchAttr("id", "a").String())
	assert.Equal(t, `AddAttribute("class", "b")`, SetAttr("class", "b").String())
	assert.Equal(t, "Unknown", MatchKind(9).String())
}

func TestYAML(t *testing.T) {
	t.Parallel()
	spec := &Spec{
		Root: Rule{
			Find:  FindElement{Find: []Find{}},
			Match: MatchElement{When: []Match{MatchTag("p"), MatchAttr("id", "a")}},
			Edit:  EditElement{Edit: []Edit{SetAttr("class", "b")}},
		},
	}

	out, err := YAML(spec)
	require.NoError(t, err)

	expected := `root:
  find:
    find: []
  match:
    when:
      - kind: HasTag
        value: p
      - kind: HasAttributeValue
        key: id
        value: a
  edit:
    edit:
      - kind: AddAttribute
        key: class
        value: b
`
	assert.Equal(t, expected, string(out))

	var back Spec
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, *spec, back)
}

func TestJSON(t *testing.T) {
	t.Parallel()
	out, err := JSON(rule(MatchTag("p")))
	require.NoError(t, err)

	expected := `{
  "find": {
    "find": []
  },
  "match": {
    "when": [
      {
        "kind": "HasTag",
        "value": "p"
      }
    ]
  },
  "edit": {
    "edit": []
  }
}
`
	assert.Equal(t, expected, string(out))
}
