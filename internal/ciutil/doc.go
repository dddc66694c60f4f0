// Package ciutil detects CI environments and resolves the environment
// variables that test helpers read. It has no dependencies on other
// internal packages.
package ciutil
