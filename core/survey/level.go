package survey

import "strings"

// Level is the strength of a stakeholder's expectation for a PLO.
type Level string

const (
	LevelF Level = "F"
	LevelM Level = "M"
	LevelP Level = "P"
)

// ParseLevel trims and upper-cases s; ok is false unless the result is F, M or P.
func ParseLevel(s string) (Level, bool) {
	lvl := Level(strings.ToUpper(strings.TrimSpace(s)))
	switch lvl {
	case LevelF, LevelM, LevelP:
		return lvl, true
	}
	return "", false
}

// FilterMappings keeps the inputs carrying a valid level, normalized. When a (stakeholder, plo)
// pair repeats, the last occurrence wins.
func FilterMappings(inputs []MappingInput) []MappingInput {
	type pair struct{ stakeholder, plo string }
	pos := make(map[pair]int, len(inputs))
	out := make([]MappingInput, 0, len(inputs))
	for _, in := range inputs {
		lvl, ok := ParseLevel(in.Level)
		if !ok {
			continue
		}
		in.StakeholderID = strings.ToLower(strings.TrimSpace(in.StakeholderID))
		in.PLOID = strings.ToLower(strings.TrimSpace(in.PLOID))
		in.Level = string(lvl)

		key := pair{in.StakeholderID, in.PLOID}
		if i, seen := pos[key]; seen {
			out[i] = in
			continue
		}
		pos[key] = len(out)
		out = append(out, in)
	}
	return out
}
