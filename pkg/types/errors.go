package types

import "fmt"

// ErrMissingRequiredField creates an error for a missing required field.
func ErrMissingRequiredField(fieldName string) error {
	return fmt.Errorf("missing required field: %s", fieldName)
}

// ErrInvalidFieldValue creates an error for an invalid field value.
func ErrInvalidFieldValue(fieldName string, value interface{}, reason string) error {
	return fmt.Errorf("invalid value for field %s: %v (%s)", fieldName, value, reason)
}

// ErrUnknownTool creates an error for a reference to an unregistered tool name.
func ErrUnknownTool(name string) error {
	return fmt.Errorf("unknown tool: %s", name)
}

// ErrUnknownCategory creates an error for an unrecognized tool category.
func ErrUnknownCategory(category ToolCategory) error {
	return fmt.Errorf("unknown tool category: %s", category)
}
