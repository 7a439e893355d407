package store

import (
	"github.com/zhulik/pal"

	"blouconnect/internal/core"
)

// ProvideMemory registers the in-process store.
func ProvideMemory() []pal.ServiceImpl {
	return []pal.ServiceImpl{
		pal.Provide[core.Store, Memory](),
	}
}
