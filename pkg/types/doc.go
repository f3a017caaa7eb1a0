// Package types defines the interfaces shared across rig's packages.
package types
