package database

import (
	"time"

	"yatube/internal/observability"

	"gorm.io/gorm"
)

const queryStartKey = "yatube:query_start"

// metricsPlugin records query latency for every GORM operation.
type metricsPlugin struct{}

func (metricsPlugin) Name() string { return "yatube:metrics" }

func (metricsPlugin) Initialize(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			observability.DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("yatube:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("yatube:after_create", after("create")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("yatube:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("yatube:after_query", after("query")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("yatube:before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("yatube:after_update", after("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("yatube:before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("yatube:after_delete", after("delete")); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("yatube:before_row", before); err != nil {
		return err
	}
	return cb.Row().After("gorm:row").Register("yatube:after_row", after("row"))
}
