package database

import "testing"

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected int
	}{
		{"standard prefix", "001_education_sessions.sql", 1},
		{"two digit version", "012_add_indexes.sql", 12},
		{"no numeric prefix", "notes.sql", 0},
		{"not a sql file", "001_readme.md", 0},
		{"too short", "a.s", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := migrationVersion(tc.filename); got != tc.expected {
				t.Errorf("migrationVersion(%q) = %d, expected %d", tc.filename, got, tc.expected)
			}
		})
	}
}
