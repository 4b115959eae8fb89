package api

import (
	"strconv"
	"strings"
)

// filterSet builds the provider's filter parameter: semicolon-joined
// "key:value" clauses, with commas separating multi-value lists inside
// a clause.
type filterSet struct {
	clauses []string
}

func (f *filterSet) add(key, value string) {
	if value == "" {
		return
	}
	f.clauses = append(f.clauses, key+":"+value)
}

func (f *filterSet) addInts(key string, ids []int) {
	if len(ids) == 0 {
		return
	}
	f.add(key, joinInts(ids))
}

// apply sets the filters parameter if any clauses were added.
func (f *filterSet) apply(params map[string]string) {
	if len(f.clauses) > 0 {
		params["filters"] = strings.Join(f.clauses, ";")
	}
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// joinIncludes builds the include parameter, also semicolon-joined.
func joinIncludes(includes []string) string {
	return strings.Join(includes, ";")
}
