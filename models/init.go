package models

// All lists every model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Organisation{},
		&User{},
		&Employee{},
		&Team{},
		&EmployeeTeam{},
		&Log{},
	}
}
