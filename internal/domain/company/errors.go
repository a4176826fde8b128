package company

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("company not found")
	ErrDuplicateName    = errors.New("template name already exists")
	ErrTemplateInUse    = errors.New("template is assigned to employees")
	ErrTemplateNotFound = errors.New("template not found")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
