//go:build !subdrelease

package subd

// debugChecks enables validation in Build and after each merge.
// Build with the subdrelease tag to disable it.
const debugChecks = true
