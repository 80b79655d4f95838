package errors

import (
	"fmt"
)

// InvalidDeploymentMapError is returned when a deployment map cannot be used
type InvalidDeploymentMapError struct {
	Cause string
}

func (e *InvalidDeploymentMapError) Error() string {
	return fmt.Sprintf("InvalidDeploymentMapError: %v", e.Cause)
}

// ParameterNotFoundError is returned when a parameter does not exist in the store
type ParameterNotFoundError struct {
	Cause string
}

func (e *ParameterNotFoundError) Error() string {
	return fmt.Sprintf("ParameterNotFoundError: %v", e.Cause)
}

// TemplateError is returned when a pipeline template is missing or fails to render
type TemplateError struct {
	Cause string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("TemplateError: %v", e.Cause)
}

// ResolveError is returned when AWS Organizations cannot resolve a target
type ResolveError struct {
	Cause string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("ResolveError: %v", e.Cause)
}
