package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/qri-io/jsonschema"

	"github.com/talentscout/screener/pkg/models"
)

// recordSchema covers the structural part of record validation: field types
// and shape. Presence checks live in Validate below, which sees blank strings
// the omitempty-encoded JSON would hide from a schema "required" clause;
// keeping presence in one place avoids reporting the same missing field twice.
const recordSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "email": {"type": "string", "minLength": 3},
    "phone": {"type": "string", "minLength": 1},
    "experience_years": {"type": "integer"},
    "desired_position": {"type": "string", "minLength": 1},
    "tech_stack": {"type": "array", "items": {"type": "string"}, "maxItems": 10}
  }
}`

var compiledRecordSchema = mustCompileSchema(recordSchema)

func mustCompileSchema(src string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		panic(fmt.Sprintf("compile record schema: %v", err))
	}
	return rs
}

// Validate checks a candidate record for completeness and format. It is a
// pure function used by callers before they decide to act on a record; the
// store does not enforce it on write.
func Validate(ctx context.Context, rec models.CandidateRecord) (bool, []string) {
	var errs []string

	data, err := json.Marshal(rec)
	if err != nil {
		return false, []string{fmt.Sprintf("marshal record: %v", err)}
	}
	verrs, err := compiledRecordSchema.ValidateBytes(ctx, data)
	if err != nil {
		return false, []string{fmt.Sprintf("schema validate: %v", err)}
	}
	for _, v := range verrs {
		errs = append(errs, v.Message)
	}

	// presence checks are owned here, not by the schema
	for field, value := range map[string]string{
		"name":             rec.Name,
		"email":            rec.Email,
		"phone":            rec.Phone,
		"desired_position": rec.DesiredPosition,
	} {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Sprintf("missing required field: %s", field))
		}
	}

	if rec.Email != "" && !strings.Contains(rec.Email, "@") {
		errs = append(errs, "invalid email format")
	}
	if rec.ExperienceYears < 0 || rec.ExperienceYears > 50 {
		errs = append(errs, "experience years must be between 0 and 50")
	}
	if rec.Phone != "" && digitCount(rec.Phone) < 10 {
		errs = append(errs, "phone number appears to be too short")
	}

	return len(errs) == 0, errs
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
