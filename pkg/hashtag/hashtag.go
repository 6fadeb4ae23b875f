package hashtag

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/helmcode/sns-qa/pkg/model"
)

// Mandatory is the fixed set of tags every post must carry.
var Mandatory = []string{
	"#snssquare",
	"#snsihub",
	"#snsdesignthinking",
	"#designthinkers",
}

var mandatoryKeys = func() map[string]struct{} {
	keys := make(map[string]struct{}, len(Mandatory))
	for _, tag := range Mandatory {
		keys[Normalize(tag)] = struct{}{}
	}
	return keys
}()

// Normalize lowercases tag and drops everything that is not a-z or 0-9, so
// "#SNS Square" and "sns-square" compare equal.
func Normalize(tag string) string {
	var b strings.Builder
	b.Grow(len(tag))
	for _, r := range strings.ToLower(tag) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsMandatory reports whether tag is one of the mandatory tags, ignoring
// case, punctuation and the leading '#'.
func IsMandatory(tag string) bool {
	key := Normalize(tag)
	if key == "" {
		return false
	}
	_, ok := mandatoryKeys[key]
	return ok
}

// Entry is a hashtag as the service sends it: either a bare string or an
// object carrying extra metadata.
type Entry interface {
	Label() string
	isEntry()
}

// Plain is a string-shaped entry. It never has a competition tier.
type Plain struct {
	Tag string
}

func (p Plain) Label() string { return p.Tag }
func (Plain) isEntry()        {}

// Rich is an object-shaped entry.
type Rich struct {
	Tag              string
	CompetitionLevel model.CompetitionLevel
}

func (r Rich) Label() string { return r.Tag }
func (Rich) isEntry()        {}

// EntryFromJSON decodes one element of a hashtag list. Elements that are
// neither strings nor objects with a tag are dropped.
func EntryFromJSON(v gjson.Result) (Entry, bool) {
	switch {
	case v.Type == gjson.String:
		tag := strings.TrimSpace(v.Str)
		if tag == "" {
			return nil, false
		}
		return Plain{Tag: tag}, true
	case v.IsObject():
		var tag string
		for _, key := range []string{"tag", "hashtag", "name"} {
			if f := v.Get(key); f.Type == gjson.String && strings.TrimSpace(f.Str) != "" {
				tag = strings.TrimSpace(f.Str)
				break
			}
		}
		if tag == "" {
			return nil, false
		}
		return Rich{Tag: tag, CompetitionLevel: ParseCompetition(v.Get("competition_level").String())}, true
	default:
		return nil, false
	}
}

// ParseCompetition accepts low, medium and high in any case.
func ParseCompetition(s string) model.CompetitionLevel {
	switch model.CompetitionLevel(strings.ToLower(strings.TrimSpace(s))) {
	case model.CompetitionLow:
		return model.CompetitionLow
	case model.CompetitionMedium:
		return model.CompetitionMedium
	case model.CompetitionHigh:
		return model.CompetitionHigh
	default:
		return model.CompetitionNone
	}
}

// Classify turns an entry into a chip.
func Classify(e Entry) model.HashtagChip {
	chip := model.HashtagChip{
		Label:       e.Label(),
		IsMandatory: IsMandatory(e.Label()),
	}
	if r, ok := e.(Rich); ok {
		chip.CompetitionLevel = r.CompetitionLevel
	}
	return chip
}

// Chips classifies a JSON list of entries, preserving order.
func Chips(list []gjson.Result) []model.HashtagChip {
	chips := make([]model.HashtagChip, 0, len(list))
	for _, v := range list {
		if e, ok := EntryFromJSON(v); ok {
			chips = append(chips, Classify(e))
		}
	}
	return chips
}

// Dedupe keeps the first chip of each normalized form. Chips whose label has
// no letters or digits are compared by their raw label.
func Dedupe(chips []model.HashtagChip) []model.HashtagChip {
	seen := make(map[string]struct{}, len(chips))
	out := make([]model.HashtagChip, 0, len(chips))
	for _, c := range chips {
		key := Normalize(c.Label)
		if key == "" {
			key = "raw:" + c.Label
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ParseList splits the comma-separated hashtag field. Entries are trimmed,
// blanks are dropped and repeats (after trimming) keep their first position.
func ParseList(csv string) []string {
	tags := []string{}
	seen := map[string]struct{}{}
	for _, part := range strings.Split(csv, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
