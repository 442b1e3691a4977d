// Package security provides validation and hard limits for the eca packages.
package security
