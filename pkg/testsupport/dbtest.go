package testsupport

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", "file::memory:?cache=shared")
}

// SQLiteMemoryURL returns a database url for a private in-memory sqlite
// database named name.
func SQLiteMemoryURL(name string) string {
	return "file:" + name + "?mode=memory&cache=shared&_fk=1"
}
