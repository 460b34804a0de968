// Package helpers provides small test utilities shared by package tests:
// a discarding logger, bounded contexts and must-style build wrappers.
package helpers
