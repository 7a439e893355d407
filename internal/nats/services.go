package nats

import (
	"github.com/zhulik/pal"

	"blouconnect/internal/core"
)

func Provide() []pal.ServiceImpl {
	return []pal.ServiceImpl{
		pal.Provide[core.Store, Store](),
	}
}
