package model

// All returns every model that participates in schema migration,
// leaf entities first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Genre{},
		&Mood{},
		&Artist{},
		&Album{},
		&Track{},
		&Playlist{},
		&PlaylistTrack{},
		&Favorite{},
		&PlayHistory{},
	}
}
