package models

// ModelsToAutoMigrate returns the models in migration order.
func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&User{}, // Must be first - items reference it
		&Item{},
	}
}
