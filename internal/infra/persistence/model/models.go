// Package model holds the GORM table mappings.
package model

// All lists every model managed by migrations, parents first.
func All() []any {
	return []any{
		&UserModel{},
		&AgentModel{},
		&CustomerModel{},
		&ProductModel{},
		&InventoryRecordModel{},
		&CustomerAssignmentHistoryModel{},
		&CustomerProgressHistoryModel{},
		&FollowUpRecordModel{},
	}
}
