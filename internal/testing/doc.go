// Package testing contains helper utilities used across tests: a fluent
// builder for site configurations and source trees, and assertions over the
// generated output tree.
package testing

const (
	// testDirPermissions is the permission mode for creating test directories.
	testDirPermissions = 0o750

	// testFilePermissions is the permission mode for creating test files.
	testFilePermissions = 0o600
)
