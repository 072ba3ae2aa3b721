package app

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var townHallRegex = regexp.MustCompile(`^TH\d+$`)

// NewValidator returns a validator that understands the "townhall" tag
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("townhall", townHall)
	return validate
}

func townHall(fl validator.FieldLevel) bool {
	return townHallRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

// Validator checks decoded backend payloads before they reach the scoring engine
type Validator struct {
	validate *validator.Validate
}

// NewRecordValidator creates a Validator backed by NewValidator
func NewRecordValidator() *Validator {
	return &Validator{validate: NewValidator()}
}

// ValidateAttackRecord checks a single attack record.
// Town hall mismatches are reported as ErrParse, everything else as ErrInvalidArgument.
func (v *Validator) ValidateAttackRecord(record AttackRecord) error {
	if record.Timestamp.IsZero() {
		return fmt.Errorf("%w: attack by %q has no timestamp", ErrParse, record.Member)
	}
	return v.classify(v.validate.Struct(record), "attack by "+record.Member)
}

// ValidateWarLogEntry checks a single war log entry
func (v *Validator) ValidateWarLogEntry(entry WarLogEntry) error {
	if entry.EndTime.IsZero() {
		return fmt.Errorf("%w: war log entry has no end time", ErrParse)
	}
	return v.classify(v.validate.Struct(entry), "war log entry")
}

// ValidateMember checks a single roster member
func (v *Validator) ValidateMember(member Member) error {
	return v.classify(v.validate.Struct(member), "member "+member.Tag)
}

func (v *Validator) classify(err error, subject string) error {
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return fmt.Errorf("%w: %s: %v", ErrInvalidArgument, subject, err)
	}

	first := validationErrors[0]
	kind := ErrInvalidArgument
	if first.Tag() == "townhall" {
		kind = ErrParse
	}
	return fmt.Errorf("%w: %s: field %s failed %q (value %v)", kind, subject, first.Field(), first.Tag(), first.Value())
}
