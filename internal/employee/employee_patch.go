package employee

import "fmt"

// Patch is a sparse update body: wire field name to new value.
type Patch map[string]any

// Keys the store owns. Clients commonly echo a whole record back, so these
// are dropped instead of rejected.
var serverManagedKeys = map[string]struct{}{
	"id":        {},
	"_id":       {},
	"createdAt": {},
	"__v":       {},
}

// InvalidPatchError describes why a patch was refused.
type InvalidPatchError struct {
	Field  string
	Reason string
}

func (e *InvalidPatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Changes validates the patch against the Employee field set and returns the
// column assignments to apply. An empty result means nothing to change.
func (p Patch) Changes() (map[string]any, error) {
	changes := make(map[string]any, len(p))
	for field, value := range p {
		if _, ok := serverManagedKeys[field]; ok {
			continue
		}

		col, err := columnFor(field)
		if err != nil {
			return nil, &InvalidPatchError{Field: field, Reason: "unknown field"}
		}

		s, ok := value.(string)
		if !ok {
			return nil, &InvalidPatchError{Field: field, Reason: "must be a string"}
		}
		changes[col] = s
	}
	return changes, nil
}
