// Package testutil provides testing utilities for chainconn.
// This package is intended for use in tests only and should not be imported
// in production code.
//
// Mock implementations that need to satisfy chainconn's collaborator
// interfaces live in the chainconn package's own test files to avoid import
// cycles; this package only contains fixtures and fake gas station servers
// that don't depend on chainconn types.
package testutil
