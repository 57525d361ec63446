package ports

// LoadStatements is the SQL a loader runs against one table.
type LoadStatements struct {
	// IdentityInsertOn/Off toggle explicit primary-key insertion. Empty when
	// the dialect needs no session toggle.
	IdentityInsertOn  string
	IdentityInsertOff string

	// Insert binds the ten AlternateNames columns.
	Insert string

	// ParamNames is set when Insert uses named parameters; arguments must
	// then be passed as sql.NamedArg in column order.
	ParamNames []string
}

// StatementBuilder renders LoadStatements for a table.
type StatementBuilder interface {
	LoadStatements(table string) LoadStatements
}
