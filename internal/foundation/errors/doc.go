// Package errors provides the classified error primitives used across bollard.
//
// Every failure the build can report is a ClassifiedError with a category from the
// build taxonomy (config, path_escape, asset_metadata, template_lookup, compile,
// render, filesystem), a severity, and structured context such as the offending
// path or template directive.
//
// Example usage:
//
//	err := errors.TemplateLookupError("template not found").
//		WithContext("directive", `Include("nav")`).
//		WithContext("name", "nav").
//		WithCause(lookupErr).
//		Build()
package errors
