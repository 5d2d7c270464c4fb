package citypay

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

// All code interacting with files is here

const (
	Sep         = ','
	EOL         = '\n'
	StringDelim = '"'
	DateFormat  = "2006-01-02"
	FloatFormat = "%.2f"
	Header      = true
	Peek        = 200
)

type Files struct {
	FieldNames  []string
	FieldTypes  []DataTypes
	EOL         byte
	Sep         byte
	StringDelim byte
	DateFormat  string
	FloatFormat string
	Header      bool

	peek   int
	strict bool

	file     *os.File
	fileName string
}

type FileOpt func(f *Files) error

func FileSep(sep byte) FileOpt {
	return func(f *Files) error {
		f.Sep = sep
		return nil
	}
}

func FileDateFormat(format string) FileOpt {
	return func(f *Files) error {
		f.DateFormat = format
		return nil
	}
}

// FileStrict - if true, a value that fails conversion to the column type is
// an error rather than a zero value.
func FileStrict(strict bool) FileOpt {
	return func(f *Files) error {
		f.strict = strict
		return nil
	}
}

// FilePeek sets how many rows are scanned to impute column types.
func FilePeek(rows int) FileOpt {
	return func(f *Files) error {
		if rows < 1 {
			return fmt.Errorf("peek must be positive")
		}

		f.peek = rows
		return nil
	}
}

// FileNames sets the column names.  If set, the source file is assumed to
// have no header.
func FileNames(names ...string) FileOpt {
	return func(f *Files) error {
		f.FieldNames = names
		f.Header = false
		return nil
	}
}

// FileTypes sets the column types.  Requires FileNames.
func FileTypes(types ...DataTypes) FileOpt {
	return func(f *Files) error {
		f.FieldTypes = types
		return nil
	}
}

func NewFiles(opts ...FileOpt) (*Files, error) {
	f := &Files{
		EOL:         byte(EOL),
		Sep:         byte(Sep),
		StringDelim: byte(StringDelim),
		DateFormat:  DateFormat,
		FloatFormat: FloatFormat,
		Header:      Header,
		peek:        Peek,
	}

	for _, opt := range opts {
		if e := opt(f); e != nil {
			return nil, e
		}
	}

	if f.FieldTypes != nil && len(f.FieldTypes) != len(f.FieldNames) {
		return nil, fmt.Errorf("FileTypes requires FileNames of the same length")
	}

	return f, nil
}

func (f *Files) Open(fileName string) error {
	var e error
	f.fileName = fileName
	f.file, e = os.Open(fileName)

	return e
}

func (f *Files) Create(fileName string) error {
	var e error
	f.fileName = fileName
	f.file, e = os.Create(fileName)

	return e
}

func (f *Files) FileName() string {
	return f.fileName
}

func (f *Files) Close() error {
	if f.file != nil {
		return f.file.Close()
	}

	return fmt.Errorf("no open files")
}

// ***************** Load *****************

// FileLoad reads an open CSV into a Table.  Column names come from the
// header unless FileNames was given; types come from FileTypes or are
// imputed by peeking at the data.
func FileLoad(f *Files) (*Table, error) {
	if f.file == nil {
		return nil, fmt.Errorf("no open file in FileLoad")
	}

	var (
		raw [][]string
		e   error
	)
	if raw, e = f.readAll(); e != nil {
		return nil, e
	}

	names := f.FieldNames
	if f.Header {
		if len(raw) == 0 {
			return nil, fmt.Errorf("empty file %s", f.fileName)
		}

		names = raw[0]
		raw = raw[1:]
	}

	if names == nil {
		return nil, fmt.Errorf("no field names for %s", f.fileName)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("no data rows in %s", f.fileName)
	}

	for ind := 0; ind < len(raw); ind++ {
		if len(raw[ind]) != len(names) {
			return nil, fmt.Errorf("row %d of %s has %d fields, expected %d", ind, f.fileName, len(raw[ind]), len(names))
		}
	}

	types := f.FieldTypes
	if types == nil {
		types = f.imputeTypes(raw, len(names))
	}

	var cols []*Col
	for ind := 0; ind < len(names); ind++ {
		var (
			col *Col
			ex  error
		)
		if col, ex = f.buildColumn(names[ind], types[ind], raw, ind); ex != nil {
			return nil, ex
		}

		cols = append(cols, col)
	}

	return NewTable(cols...)
}

func (f *Files) readAll() ([][]string, error) {
	var rows [][]string

	scanner := bufio.NewScanner(f.file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.Trim(line, " ") == "" {
			continue
		}

		rows = append(rows, f.splitLine(line))
	}

	return rows, scanner.Err()
}

// splitLine splits on Sep, honoring StringDelim-quoted fields.
func (f *Files) splitLine(line string) []string {
	var (
		fields []string
		cur    []byte
		quoted bool
	)

	for ind := 0; ind < len(line); ind++ {
		ch := line[ind]
		switch {
		case ch == f.StringDelim:
			quoted = !quoted
		case ch == f.Sep && !quoted:
			fields = append(fields, string(cur))
			cur = nil
		default:
			cur = append(cur, ch)
		}
	}

	fields = append(fields, string(cur))

	return fields
}

// imputeTypes picks, per column, the most specific type every peeked
// non-empty value converts to.
func (f *Files) imputeTypes(raw [][]string, nCols int) []DataTypes {
	n := len(raw)
	if n > f.peek {
		n = f.peek
	}

	types := make([]DataTypes, nCols)
	for col := 0; col < nCols; col++ {
		dt := DTunknown
		for row := 0; row < n; row++ {
			val := strings.TrimSpace(raw[row][col])
			if val == "" {
				continue
			}

			_, dtx, e := bestType(val)
			if e != nil {
				dtx = DTstring
			}

			dt = mergeTypes(dt, dtx)
		}

		if dt == DTunknown {
			dt = DTstring
		}

		types[col] = dt
	}

	return types
}

// mergeTypes widens the running column type to cover a new value's type.
func mergeTypes(have, next DataTypes) DataTypes {
	if have == DTunknown || have == next {
		return next
	}

	if (have == DTint && next == DTfloat) || (have == DTfloat && next == DTint) {
		return DTfloat
	}

	return DTstring
}

func (f *Files) buildColumn(name string, dt DataTypes, raw [][]string, colIndx int) (*Col, error) {
	n := len(raw)

	var data any
	switch dt {
	case DTfloat:
		data = make([]float64, n)
	case DTint:
		data = make([]int, n)
	case DTdate:
		data = make([]time.Time, n)
	default:
		dt = DTstring
		data = make([]string, n)
	}

	for row := 0; row < n; row++ {
		val := strings.TrimSpace(raw[row][colIndx])

		// missing values become the type's zero value
		if val == "" && dt != DTstring {
			continue
		}

		var (
			x  any
			ok bool
		)
		if x, ok = toDataType(val, dt); !ok {
			if f.strict {
				return nil, fmt.Errorf("cannot convert %s to %s in column %s, row %d", val, dt, name, row)
			}

			continue
		}

		switch dt {
		case DTfloat:
			data.([]float64)[row] = x.(float64)
		case DTint:
			data.([]int)[row] = x.(int)
		case DTdate:
			data.([]time.Time)[row] = x.(time.Time)
		case DTstring:
			data.([]string)[row] = x.(string)
		}
	}

	return NewCol(name, data)
}

// ***************** Save *****************

// Save writes the table to fileName as delimited text.
func (f *Files) Save(fileName string, t *Table) error {
	if e := f.Create(fileName); e != nil {
		return e
	}
	defer func() { _ = f.Close() }()

	f.FieldNames = t.ColumnNames()
	if e := f.writeHeader(); e != nil {
		return e
	}

	for row := 0; row < t.RowCount(); row++ {
		var v []any
		for c := t.Next(true); c != nil; c = t.Next(false) {
			v = append(v, c.Element(row))
		}

		if e := f.writeLine(v); e != nil {
			return e
		}
	}

	return nil
}

func (f *Files) writeLine(v []any) error {
	var line []byte
	for ind := 0; ind < len(v); ind++ {
		var lx []byte
		switch d := v[ind].(type) {
		case float64:
			lx = []byte(fmt.Sprintf(f.FloatFormat, d))
		case int:
			lx = []byte(fmt.Sprintf("%v", d))
		case time.Time:
			lx = []byte(d.Format(f.DateFormat))
		case string:
			lx = []byte(d)
			lx = append([]byte{f.StringDelim}, lx...)
			lx = append(lx, f.StringDelim)
		default:
			lx = []byte("#err#")
		}
		line = append(line, lx...)
		if ind < len(v)-1 {
			line = append(line, f.Sep)
		}
	}

	if _, e := f.file.Write(line); e != nil {
		return e
	}
	_, e := f.file.Write([]byte{f.EOL})

	return e
}

func (f *Files) writeHeader() error {
	if !f.Header {
		return nil
	}

	if f.FieldNames == nil {
		return fmt.Errorf("field names not set in *Files")
	}

	_, e := f.file.WriteString(strings.Join(f.FieldNames, string(rune(f.Sep))) + string(rune(f.EOL)))

	return e
}
