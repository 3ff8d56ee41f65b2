package focusflow

import (
	"fmt"
	"strings"
)

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every constraint violation for a record so the
// caller can surface them all at once.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (r TimerSessionRecord) Validate() error {
	var errs ValidationErrors
	if r.OwnerID == "" {
		errs = append(errs, FieldError{"ownerId", "required"})
	}
	if _, ok := ParseTimerKind(r.Kind.String()); !ok {
		errs = append(errs, FieldError{"kind", "must be one of pomodoro, focus, break, custom"})
	}
	if r.PlannedMinutes < MinPlannedMinutes || r.PlannedMinutes > MaxPlannedMinutes {
		errs = append(errs, FieldError{"plannedDurationMinutes", fmt.Sprintf("must be between %d and %d", MinPlannedMinutes, MaxPlannedMinutes)})
	}
	if r.StartedAt.IsZero() {
		errs = append(errs, FieldError{"startedAt", "required"})
	}
	return errs.orNil()
}

func (r GoalRecord) Validate() error {
	var errs ValidationErrors
	if r.OwnerID == "" {
		errs = append(errs, FieldError{"ownerId", "required"})
	}
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, FieldError{"title", "required"})
	}
	if len(r.Title) > 200 {
		errs = append(errs, FieldError{"title", "must be at most 200 characters"})
	}
	if r.TargetMinutes < 0 {
		errs = append(errs, FieldError{"targetMinutes", "must be non-negative"})
	}
	return errs.orNil()
}

func (r UserRecord) Validate() error {
	var errs ValidationErrors
	if !strings.Contains(r.Email, "@") {
		errs = append(errs, FieldError{"email", "must be a valid email address"})
	}
	if strings.TrimSpace(r.DisplayName) == "" {
		errs = append(errs, FieldError{"displayName", "required"})
	}
	if r.DefaultPlannedMinutes != 0 &&
		(r.DefaultPlannedMinutes < MinPlannedMinutes || r.DefaultPlannedMinutes > MaxPlannedMinutes) {
		errs = append(errs, FieldError{"defaultPlannedMinutes", fmt.Sprintf("must be between %d and %d", MinPlannedMinutes, MaxPlannedMinutes)})
	}
	return errs.orNil()
}

func (r CategoryRecord) Validate() error {
	var errs ValidationErrors
	if r.OwnerID == "" {
		errs = append(errs, FieldError{"ownerId", "required"})
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, FieldError{"name", "required"})
	}
	if r.Color != "" && !isHexColor(r.Color) {
		errs = append(errs, FieldError{"color", "must be a hex color like #ff8800"})
	}
	return errs.orNil()
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
