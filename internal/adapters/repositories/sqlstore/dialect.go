package sqlstore

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/terratensor/altnames/internal/config"
	"github.com/terratensor/altnames/internal/core/ports"
)

// Columns of the AlternateNames table in insert order.
var Columns = []string{
	"ID",
	"GeoNameId",
	"ISOLanguage",
	"AlternateName",
	"IsPreferredName",
	"IsShortName",
	"IsColloquial",
	"IsHistoric",
	"FromDate",
	"ToDate",
}

// Dialect holds what differs between the supported databases.
type Dialect struct {
	Driver string

	identityOn  string
	identityOff string
	overriding  string
	named       bool
	placeholder func(i int, column string) string
	createTable string
}

var _ ports.StatementBuilder = (*Dialect)(nil)

var dialects = map[string]*Dialect{
	config.DialectSQLServer: {
		Driver:      "sqlserver",
		identityOn:  "SET IDENTITY_INSERT %s ON",
		identityOff: "SET IDENTITY_INSERT %s OFF",
		named:       true,
		placeholder: func(_ int, column string) string { return "@" + column },
		createTable: `CREATE TABLE %s (
        ID INT IDENTITY(1,1) NOT NULL PRIMARY KEY,
        GeoNameId INT NOT NULL,
        ISOLanguage NVARCHAR(7) NULL,
        AlternateName NVARCHAR(400) NULL,
        IsPreferredName BIT NOT NULL,
        IsShortName BIT NOT NULL,
        IsColloquial BIT NOT NULL,
        IsHistoric BIT NOT NULL,
        FromDate DATE NULL,
        ToDate DATE NULL
    )`,
	},
	// В PostgreSQL нет сессионного переключателя, явный id разрешает
	// OVERRIDING SYSTEM VALUE в самом INSERT
	config.DialectPostgres: {
		Driver:      "pgx",
		overriding:  " OVERRIDING SYSTEM VALUE",
		placeholder: func(i int, _ string) string { return fmt.Sprintf("$%d", i+1) },
		createTable: `CREATE TABLE %s (
        ID BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
        GeoNameId BIGINT NOT NULL,
        ISOLanguage VARCHAR(7) NULL,
        AlternateName VARCHAR(400) NULL,
        IsPreferredName BOOLEAN NOT NULL,
        IsShortName BOOLEAN NOT NULL,
        IsColloquial BOOLEAN NOT NULL,
        IsHistoric BOOLEAN NOT NULL,
        FromDate DATE NULL,
        ToDate DATE NULL
    )`,
	},
	// INTEGER PRIMARY KEY принимает явные значения без переключателя
	config.DialectSQLite: {
		Driver:      "sqlite",
		placeholder: func(int, string) string { return "?" },
		createTable: `CREATE TABLE %s (
        ID INTEGER PRIMARY KEY,
        GeoNameId INTEGER NOT NULL,
        ISOLanguage TEXT NULL,
        AlternateName TEXT NULL,
        IsPreferredName BOOLEAN NOT NULL,
        IsShortName BOOLEAN NOT NULL,
        IsColloquial BOOLEAN NOT NULL,
        IsHistoric BOOLEAN NOT NULL,
        FromDate DATE NULL,
        ToDate DATE NULL
    )`,
	},
}

// DialectFor looks up a dialect by its configuration name.
func DialectFor(name string) (*Dialect, error) {
	d, ok := dialects[strings.ToLower(name)]
	if !ok {
		return nil, errors.Errorf("unsupported dialect %q", name)
	}
	return d, nil
}

// LoadStatements renders the toggle and insert statements for table.
func (d *Dialect) LoadStatements(table string) ports.LoadStatements {
	st := ports.LoadStatements{Insert: d.insertSQL(table)}
	if d.identityOn != "" {
		st.IdentityInsertOn = fmt.Sprintf(d.identityOn, table)
		st.IdentityInsertOff = fmt.Sprintf(d.identityOff, table)
	}
	if d.named {
		st.ParamNames = Columns
	}
	return st
}

func (d *Dialect) insertSQL(table string) string {
	values := make([]string, len(Columns))
	for i, col := range Columns {
		values[i] = d.placeholder(i, col)
	}
	return fmt.Sprintf("INSERT INTO %s (%s)%s VALUES (%s)",
		table,
		strings.Join(Columns, ", "),
		d.overriding,
		strings.Join(values, ", "))
}

// CreateTableSQL is reference DDL for an AlternateNames table with an
// auto-generated ID. The loader never runs it; it provisions test databases.
func (d *Dialect) CreateTableSQL(table string) string {
	return fmt.Sprintf(d.createTable, table)
}

// CountSQL counts the rows of table.
func (d *Dialect) CountSQL(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}
