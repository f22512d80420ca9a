//go:build !go1.22

package typesystem

import "go/types"

// Before Go 1.22 go/types has no Alias type, so every type is already unaliased.
func unalias(t types.Type) types.Type { return t }
