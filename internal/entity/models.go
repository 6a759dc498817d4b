package entity

// All lists every table managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Profile{},
		&Club{},
		&ClubMember{},
		&Match{},
		&Player{},
		&Post{},
		&Comment{},
		&Relation{},
		&Notification{},
		&NotificationSettings{},
		&Training{},
		&AttendanceRecord{},
	}
}
