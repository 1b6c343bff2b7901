//go:build subdrelease

package subd

const debugChecks = false
