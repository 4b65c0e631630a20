// Package kernel holds the value objects shared by every aggregate:
// UUID identifiers and Money amounts.
package kernel
