package vacancy

import (
	"fmt"
	"strings"

	"github.com/jimezsa/vacancyctl/internal/models"
)

// Policy says which draft fields may stay empty on submit. It is immutable
// once built.
type Policy struct {
	optional map[models.Field]bool
}

// RequireAll is the create-form policy: every field is required except hh_id.
func RequireAll() Policy {
	return Policy{optional: map[models.Field]bool{models.FieldHHID: true}}
}

// SnapshotPolicy captures, for the loaded record, which fields were empty.
// Those stay optional for the whole edit session.
func SnapshotPolicy(v models.Vacancy) Policy {
	loaded := models.FieldsFrom(v)
	optional := make(map[models.Field]bool, len(models.EditableFields))
	for _, field := range models.EditableFields {
		optional[field] = strings.TrimSpace(loaded.Get(field)) == ""
	}
	optional[models.FieldHHID] = true
	optional[models.FieldStatus] = false
	return Policy{optional: optional}
}

// Optional reports whether field may be empty. Status never is.
func (p Policy) Optional(field models.Field) bool {
	if field == models.FieldStatus {
		return false
	}
	return p.optional[field]
}

// Validate returns a *ValidationError naming every required field that is
// empty, or nil.
func (p Policy) Validate(fields models.Fields) error {
	var missing []models.Field
	for _, field := range models.EditableFields {
		if p.Optional(field) {
			continue
		}
		if strings.TrimSpace(fields.Get(field)) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing}
}

// ValidationError is a failure detected before any network call.
type ValidationError struct {
	Missing []models.Field
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	names := make([]string, 0, len(e.Missing))
	for _, field := range e.Missing {
		names = append(names, string(field))
	}
	return fmt.Sprintf("required fields are empty: %s", strings.Join(names, ", "))
}
