package model

import "github.com/daglabs/prunepoint/domain/consensus/database"

// These aliases let every store interface in this package refer to the
// database facade types without each file importing the database package
// under a different local name.
type (
	DBKey         = database.DBKey
	DBReader      = database.DBReader
	DBWriter      = database.DBWriter
	DBTransaction = database.DBTransaction
	DBManager     = database.DBManager
	Cursor        = database.Cursor
)
