package draft

import (
	"fmt"
	"strconv"
	"strings"
)

// Translator maps a server-side error field name onto the UI field name the
// validators and forms use. Server names differ from UI names
// (e.g. "bi_last_name" vs "lastName", "dependents.0.name" vs "{id}_name").
type Translator interface {
	Translate(serverField string) string
}

type identityTranslator struct{}

func (identityTranslator) Translate(serverField string) string {
	return serverField
}

// Table is a static server-to-UI field name mapping with optional support
// for indexed collection fields.
type Table struct {
	// Fields maps exact server names to UI names.
	Fields map[string]string

	// Collections maps a server collection prefix (e.g. "dependents") to a
	// resolver turning (index, subfield) into the UI key, typically
	// "{slotID}_{subfield}".
	Collections map[string]func(index int, subfield string) string
}

func (t Table) Translate(serverField string) string {
	if ui, ok := t.Fields[serverField]; ok {
		return ui
	}

	// Indexed collection shape: "<prefix>.<index>.<subfield>"
	parts := strings.SplitN(serverField, ".", 3)
	if len(parts) == 3 {
		if resolve, ok := t.Collections[parts[0]]; ok {
			if index, err := strconv.Atoi(parts[1]); err == nil {
				return resolve(index, parts[2])
			}
		}
	}

	return serverField
}

// IndexedKey builds the conventional UI key for a collection entry.
func IndexedKey(id, subfield string) string {
	return fmt.Sprintf("%s_%s", id, subfield)
}
