package domain

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// nameCollator orders names the way a locale-aware string compare does.
// A Collator is not safe for concurrent use.
var (
	nameCollatorMu sync.Mutex
	nameCollator   = collate.New(language.Und)
)

func compareNames(a, b string) int {
	nameCollatorMu.Lock()
	defer nameCollatorMu.Unlock()
	return nameCollator.CompareString(a, b)
}

// SortField names a sortable column.
type SortField string

const (
	SortByCreation SortField = "date"
	SortByName     SortField = "task"
	SortByStatus   SortField = "status"
)

// ParseSortField resolves a column name. "name" and "created" are accepted as aliases.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date", "created", "creation":
		return SortByCreation, nil
	case "task", "name":
		return SortByName, nil
	case "status":
		return SortByStatus, nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// Less reports whether a orders before b on the field in ascending order.
func (f SortField) Less(a, b Task) bool {
	switch f {
	case SortByName:
		return compareNames(a.Name, b.Name) < 0
	case SortByStatus:
		return a.Status < b.Status
	default:
		return a.ID < b.ID
	}
}
