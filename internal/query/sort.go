package query

import "strings"

// latestValueSub selects the most recently created live attribute value for
// a field, which is what attribute sorts order on. Stored strings compare
// raw, so numeric attribute sorts are lexicographic.
const latestValueSub = "(SELECT a.value FROM attributes a" +
	" WHERE a.content_id = content.id AND a.field_name = ? AND a.deleted_at IS NULL" +
	" ORDER BY a.created_at DESC, a.id DESC LIMIT 1)"

// OrderBy compiles parsed sort keys into an ORDER BY clause body with bound
// arguments. Core fields order on their column, attribute fields on a
// correlated lookup of the latest live value. Content id is always the
// final tiebreak, and the sole ordering when keys is empty.
func OrderBy(keys []SortKey) (string, []any) {
	var terms []string
	var args []any

	for _, key := range keys {
		dir := " ASC"
		if key.Desc {
			dir = " DESC"
		}
		if coreFields[key.Field] {
			terms = append(terms, "content."+key.Field+dir)
			continue
		}
		terms = append(terms, latestValueSub+dir)
		args = append(args, key.Field)
	}

	terms = append(terms, "content.id ASC")
	return strings.Join(terms, ", "), args
}
