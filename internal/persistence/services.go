package persistence

import (
	"github.com/zhulik/pal"

	"blouconnect/internal/core"
)

func Provide() []pal.ServiceImpl {
	return []pal.ServiceImpl{
		pal.Provide[core.DB, DB](),
		pal.Provide[core.DBMigrator, Migrator](),
		pal.Provide[core.Store, KVStore](),
	}
}
