package citypay

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/jackc/pgx/stdlib"
)

// All code interacting with a database is here

const (
	ch = "clickhouse"
	pg = "postgres"
)

type Dialect struct {
	db      *sql.DB
	dialect string
}

func NewDialect(dialect string, db *sql.DB) (*Dialect, error) {
	dialect = strings.ToLower(dialect)

	if dialect != ch && dialect != pg {
		return nil, fmt.Errorf("unsupported db dialect %s", dialect)
	}

	return &Dialect{db: db, dialect: dialect}, nil
}

func (d *Dialect) DialectName() string {
	return d.dialect
}

func (d *Dialect) DB() *sql.DB {
	return d.db
}

func (d *Dialect) Close() error {
	return d.db.Close()
}

func (d *Dialect) Exists(tableName string) bool {
	qry := fmt.Sprintf("SELECT * FROM %s LIMIT 1", tableName)
	r, e := d.db.Query(qry)
	if e != nil {
		return false
	}
	_ = r.Close()

	return true
}

// ***************** Load *****************

// Load runs the query and returns the result set as a Table.  Column types
// are imputed from the scanned values.
func (d *Dialect) Load(qry string) (*Table, error) {
	var (
		rows *sql.Rows
		e    error
	)
	if rows, e = d.db.Query(qry); e != nil {
		return nil, e
	}
	defer func() { _ = rows.Close() }()

	var names []string
	if names, e = rows.Columns(); e != nil {
		return nil, e
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no columns returned by %s", qry)
	}

	raw := make([][]any, len(names))
	for rows.Next() {
		vals := make([]any, len(names))
		ptrs := make([]any, len(names))
		for ind := 0; ind < len(names); ind++ {
			ptrs[ind] = &vals[ind]
		}

		if ex := rows.Scan(ptrs...); ex != nil {
			return nil, ex
		}

		for ind := 0; ind < len(names); ind++ {
			raw[ind] = append(raw[ind], vals[ind])
		}
	}

	if e = rows.Err(); e != nil {
		return nil, e
	}

	if len(raw[0]) == 0 {
		return nil, fmt.Errorf("no rows returned by %s", qry)
	}

	var cols []*Col
	for ind := 0; ind < len(names); ind++ {
		var (
			col *Col
			ex  error
		)
		if col, ex = scanColumn(names[ind], raw[ind]); ex != nil {
			return nil, ex
		}

		cols = append(cols, col)
	}

	return NewTable(cols...)
}

// scanColumn converts one column of scanned values to a typed Col.
func scanColumn(name string, vals []any) (*Col, error) {
	var (
		dt    DataTypes
		first any
	)
	for ind := 0; ind < len(vals); ind++ {
		if vals[ind] != nil {
			first = vals[ind]
			break
		}
	}

	if first == nil {
		return NewCol(name, make([]float64, len(vals)))
	}

	if b, ok := first.([]byte); ok {
		first = string(b)
	}

	if _, dt, _ = bestType(first); dt == DTunknown {
		return nil, fmt.Errorf("unsupported db type in column %s", name)
	}

	var data any
	switch dt {
	case DTfloat:
		data = make([]float64, len(vals))
	case DTint:
		data = make([]int, len(vals))
	case DTstring:
		data = make([]string, len(vals))
	case DTdate:
		data = make([]time.Time, len(vals))
	}

	for ind := 0; ind < len(vals); ind++ {
		v := vals[ind]
		if v == nil {
			continue
		}

		if b, ok := v.([]byte); ok {
			v = string(b)
		}

		var (
			x  any
			ok bool
		)
		if x, ok = toDataType(v, dt); !ok {
			return nil, fmt.Errorf("cannot convert row %d of column %s to %s", ind, name, dt)
		}

		switch dt {
		case DTfloat:
			data.([]float64)[ind] = x.(float64)
		case DTint:
			data.([]int)[ind] = x.(int)
		case DTstring:
			data.([]string)[ind] = x.(string)
		case DTdate:
			data.([]time.Time)[ind] = x.(time.Time)
		}
	}

	return NewCol(name, data)
}

// ***************** Save *****************

// Save writes the table to tableName.  The drop/create/insert run in a
// single transaction so no reader sees a partially written table.
func (d *Dialect) Save(tableName string, t *Table, overwrite bool) error {
	if d.Exists(tableName) && !overwrite {
		return fmt.Errorf("table %s exists", tableName)
	}

	var (
		tx *sql.Tx
		e  error
	)
	if tx, e = d.db.Begin(); e != nil {
		return e
	}

	if _, e = tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)); e != nil {
		_ = tx.Rollback()
		return e
	}

	if _, e = tx.Exec(d.createSQL(tableName, t)); e != nil {
		_ = tx.Rollback()
		return e
	}

	const batch = 500
	for start := 0; start < t.RowCount(); start += batch {
		end := start + batch
		if end > t.RowCount() {
			end = t.RowCount()
		}

		if _, e = tx.Exec(d.insertSQL(tableName, t, start, end)); e != nil {
			_ = tx.Rollback()
			return e
		}
	}

	return tx.Commit()
}

func (d *Dialect) createSQL(tableName string, t *Table) string {
	var flds []string
	for c := t.Next(true); c != nil; c = t.Next(false) {
		flds = append(flds, fmt.Sprintf("%s %s", c.Name(), d.dbType(c.DataType())))
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", tableName, strings.Join(flds, ", "))
	if d.dialect == ch {
		create += fmt.Sprintf(" ENGINE = MergeTree ORDER BY %s", t.ColumnNames()[0])
	}

	return create
}

func (d *Dialect) insertSQL(tableName string, t *Table, start, end int) string {
	var rows []string
	for row := start; row < end; row++ {
		var vals []string
		for c := t.Next(true); c != nil; c = t.Next(false) {
			vals = append(vals, d.literal(c.Element(row)))
		}

		rows = append(rows, "("+strings.Join(vals, ", ")+")")
	}

	return fmt.Sprintf("INSERT INTO %s VALUES %s", tableName, strings.Join(rows, ", "))
}

func (d *Dialect) dbType(dt DataTypes) string {
	if d.dialect == ch {
		switch dt {
		case DTfloat:
			return "Float64"
		case DTint:
			return "Int64"
		case DTdate:
			return "Date"
		default:
			return "String"
		}
	}

	switch dt {
	case DTfloat:
		return "DOUBLE PRECISION"
	case DTint:
		return "BIGINT"
	case DTdate:
		return "DATE"
	default:
		return "TEXT"
	}
}

func (d *Dialect) literal(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%v", x)
	case int:
		return fmt.Sprintf("%d", x)
	case time.Time:
		return fmt.Sprintf("'%s'", x.Format("2006-01-02"))
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	default:
		return "NULL"
	}
}

// ***************** Connections *****************

func NewConnectCH(host, user, password string) (*sql.DB, error) {
	db := clickhouse.OpenDB(
		&clickhouse.Options{
			Addr: []string{host + ":9000"},
			Auth: clickhouse.Auth{
				Database: "default",
				Username: user,
				Password: password,
			},
			DialTimeout: 300 * time.Second,
			Compression: &clickhouse.Compression{
				Method: clickhouse.CompressionLZ4,
				Level:  0,
			},
		})

	if e := db.Ping(); e != nil {
		return nil, e
	}

	return db, nil
}

func NewConnectPG(host, user, password, dbName string) (*sql.DB, error) {
	connectionStr := fmt.Sprintf("postgres://%s:%s@%s:5432/%s", user, password, host, dbName)

	var (
		db *sql.DB
		e  error
	)
	if db, e = sql.Open("pgx", connectionStr); e != nil {
		return nil, e
	}

	if e = db.Ping(); e != nil {
		return nil, e
	}

	return db, nil
}
