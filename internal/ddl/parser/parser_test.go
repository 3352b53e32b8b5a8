package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkilian/tsddl/internal/ddl/ast"
	"github.com/arkilian/tsddl/internal/errors"
)

const validPartitioned = `
CREATE TABLE rcx ( a INT, b STRING, c INT )
PARTITION BY RANGE COLUMNS(b, a) (
  PARTITION r0 VALUES LESS THAN ('hz', 1000),
  PARTITION r1 VALUES LESS THAN ('sh', 2000),
  PARTITION r3 VALUES LESS THAN (MAXVALUE, MAXVALUE),
)
ENGINE=mito`

func mustCreateTable(t *testing.T, sql string) *ast.CreateTable {
	t.Helper()
	stmt, err := Parse(sql, GenericDialect{})
	require.NoError(t, err)
	ct, ok := stmt.(*ast.CreateTable)
	require.True(t, ok, "expected *ast.CreateTable, got %T", stmt)
	return ct
}

func TestParseCreateDatabase(t *testing.T) {
	stmt, err := Parse("create database prometheus", nil)
	require.NoError(t, err)

	db, ok := stmt.(*ast.CreateDatabase)
	require.True(t, ok)
	assert.Equal(t, "prometheus", db.Name.String())
}

func TestParseCreateDatabaseWithoutName(t *testing.T) {
	_, err := Parse("create database", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unexpected token while parsing SQL statement")
	assert.Equal(t, errors.CodeUnexpectedToken, errors.GetCode(err))
}

func TestParseCreateTable(t *testing.T) {
	sql := `create table demo(
                             host string,
                             ts int64,
                             cpu float64 default 0,
                             memory float64,
                             TIME INDEX (ts),
                             PRIMARY KEY(ts, host)) engine=mito
                             with(regions=1);
         `
	ct := mustCreateTable(t, sql)

	assert.False(t, ct.IfNotExists)
	assert.Equal(t, "demo", ct.Name.String())
	assert.Equal(t, "mito", ct.Engine)
	assert.Equal(t, uint32(0), ct.TableID)
	assert.Nil(t, ct.Partitions)

	require.Len(t, ct.Columns, 4)
	names := []string{"host", "ts", "cpu", "memory"}
	types := []string{"STRING", "INT64", "FLOAT64", "FLOAT64"}
	for i, col := range ct.Columns {
		assert.Equal(t, names[i], col.Name.Value)
		assert.Equal(t, types[i], col.DataType.String())
	}
	require.Len(t, ct.Columns[2].Options, 1)
	assert.Equal(t, ast.OptionDefault, ct.Columns[2].Options[0].Kind)
	assert.Equal(t, "0", ct.Columns[2].Options[0].Default.String())

	require.Len(t, ct.Constraints, 2)
	ti, ok := ct.Constraints[0].(*ast.TimeIndex)
	require.True(t, ok)
	assert.Equal(t, "ts", ti.Column.Value)
	pk, ok := ct.Constraints[1].(*ast.Unique)
	require.True(t, ok)
	assert.True(t, pk.IsPrimary)
	assert.Equal(t, []ast.Ident{ast.NewIdent("ts"), ast.NewIdent("host")}, pk.Columns)

	require.Len(t, ct.Options, 1)
	assert.Equal(t, "regions", ct.Options[0].Name.String())
	assert.Equal(t, "1", ct.Options[0].Value.String())
}

func TestParseCreateTableDefaults(t *testing.T) {
	ct := mustCreateTable(t, "CREATE TABLE IF NOT EXISTS db.t (a INT)")
	assert.True(t, ct.IfNotExists)
	assert.Equal(t, ast.ObjectName{ast.NewIdent("db"), ast.NewIdent("t")}, ct.Name)
	assert.Equal(t, ast.DefaultEngine, ct.Engine)
	assert.Empty(t, ct.Options)
	assert.Empty(t, ct.Constraints)
}

func TestParseEmptyAndTrailingComma(t *testing.T) {
	ct := mustCreateTable(t, "CREATE TABLE t ()")
	assert.Empty(t, ct.Columns)

	ct = mustCreateTable(t, "CREATE TABLE t (a INT, b STRING,)")
	assert.Len(t, ct.Columns, 2)
}

func TestParseMissingSeparator(t *testing.T) {
	_, err := Parse("CREATE TABLE t (a INT b STRING)", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "',' or ')' after column definition")
}

func TestParseInvalidTimeIndex(t *testing.T) {
	sql := `create table demo(
                             host string,
                             ts int64,
                             cpu float64 default 0,
                             memory float64,
                             TIME INDEX (ts, host),
                             PRIMARY KEY(ts, host)) engine=mito
                             with(regions=1);`
	_, err := Parse(sql, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidTimeIndex, errors.GetCode(err))

	_, err = Parse("create table demo (ts timestamp, TIME INDEX ())", nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidTimeIndex, errors.GetCode(err))
}

const monitorSugar = `
CREATE TABLE monitor (
  host_id    INT,
  idc        STRING,
  ts         TIMESTAMP TIME INDEX,
  cpu        DOUBLE DEFAULT 0,
  memory     DOUBLE,
  PRIMARY KEY (host),
)
ENGINE=mito`

func TestTimeIndexSugar(t *testing.T) {
	ct := mustCreateTable(t, monitorSugar)

	require.Len(t, ct.Constraints, 2)
	ti, ok := ct.Constraints[0].(*ast.TimeIndex)
	require.True(t, ok)

	u := ti.AsUnique()
	require.NotNil(t, u.Name)
	assert.Equal(t, "__time_index", u.Name.Value)
	assert.Equal(t, []ast.Ident{ast.NewIdent("ts")}, u.Columns)
	assert.False(t, u.IsPrimary)

	assert.Equal(t, []ast.ColumnOption{ast.NotNull()}, ct.Columns[2].Options)
	assert.False(t, ct.Columns[2].IsNullable())
}

func TestTimeIndexSugarEquivalence(t *testing.T) {
	sugar := mustCreateTable(t, monitorSugar)

	explicit := mustCreateTable(t, `
CREATE TABLE monitor (
  host_id    INT,
  idc        STRING,
  ts         TIMESTAMP NOT NULL,
  cpu        DOUBLE DEFAULT 0,
  memory     DOUBLE,
  TIME INDEX (ts),
  PRIMARY KEY (host),
)
ENGINE=mito`)
	assert.Equal(t, sugar, explicit)

	nullable := mustCreateTable(t, `
CREATE TABLE monitor (
  host_id    INT,
  idc        STRING,
  ts         TIMESTAMP,
  cpu        DOUBLE DEFAULT 0,
  memory     DOUBLE,
  TIME INDEX (ts),
  PRIMARY KEY (host),
)
ENGINE=mito`)
	assert.NotEqual(t, sugar, nullable)
	assert.Empty(t, nullable.Columns[2].Options)
}

func TestTimeIndexSugarNotNull(t *testing.T) {
	monitor := func(ts string) string {
		return `
CREATE TABLE monitor (
  host_id    INT,
  idc        STRING,
  ts         ` + ts + `,
  cpu        DOUBLE DEFAULT 0,
  memory     DOUBLE,
  TIME INDEX (ts),
  PRIMARY KEY (host),
)
ENGINE=mito`
	}

	base := mustCreateTable(t, monitor("TIMESTAMP TIME INDEX"))
	assert.Equal(t, ast.OptionNotNull, base.Columns[2].Options[0].Kind)

	for _, ts := range []string{"TIMESTAMP NOT NULL TIME INDEX", "TIMESTAMP TIME INDEX NOT NULL"} {
		assert.Equal(t, base, mustCreateTable(t, monitor(ts)), ts)
	}

	for _, ts := range []string{
		"TIMESTAMP TIME INDEX NULL NOT",
		"TIMESTAMP TIME INDEX NOT NULL NULL",
		"TIMESTAMP NOT NULL PRIMARY",
	} {
		_, err := Parse(monitor(ts), nil)
		assert.Error(t, err, ts)
	}
}

func TestTimeIndexSugarRequiresKeywords(t *testing.T) {
	_, err := Parse("CREATE TABLE t (ts TIMESTAMP TIME KEY)", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected: 'TIME INDEX'")
}

func TestColumnsNamedLikeKeywords(t *testing.T) {
	ct := mustCreateTable(t, "CREATE TABLE t (time TIMESTAMP TIME INDEX, primary INT, \"unique\" STRING)")
	require.Len(t, ct.Columns, 3)
	assert.Equal(t, "time", ct.Columns[0].Name.Value)
	assert.Equal(t, "primary", ct.Columns[1].Name.Value)
}

func TestNamedConstraint(t *testing.T) {
	ct := mustCreateTable(t, "CREATE TABLE t (a INT, b INT, CONSTRAINT pk PRIMARY KEY (a), CONSTRAINT uq UNIQUE (b))")
	require.Len(t, ct.Constraints, 2)

	pk := ct.Constraints[0].(*ast.Unique)
	assert.Equal(t, "pk", pk.Name.Value)
	assert.True(t, pk.IsPrimary)

	uq := ct.Constraints[1].(*ast.Unique)
	assert.Equal(t, "uq", uq.Name.Value)
	assert.False(t, uq.IsPrimary)

	_, err := Parse("CREATE TABLE t (a INT, CONSTRAINT c FOREIGN KEY (a))", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected PRIMARY, UNIQUE, TIME, found: FOREIGN")
}

func TestParsePartitions(t *testing.T) {
	ct := mustCreateTable(t, `
CREATE TABLE monitor (
  host_id    INT,
  idc        STRING,
  ts         TIMESTAMP,
  cpu        DOUBLE DEFAULT 0,
  memory     DOUBLE,
  TIME INDEX (ts),
  PRIMARY KEY (host),
)
PARTITION BY RANGE COLUMNS(idc, host_id) (
  PARTITION r0 VALUES LESS THAN ('hz', 1000),
  PARTITION r1 VALUES LESS THAN ('sh', 2000),
  PARTITION r2 VALUES LESS THAN ('sh', 3000),
  PARTITION r3 VALUES LESS THAN (MAXVALUE, MAXVALUE),
)
ENGINE=mito`)

	require.NotNil(t, ct.Partitions)
	assert.Equal(t, []ast.Ident{ast.NewIdent("idc"), ast.NewIdent("host_id")}, ct.Partitions.ColumnList)

	entries := ct.Partitions.Entries
	require.Len(t, entries, 4)
	for i, name := range []string{"r0", "r1", "r2", "r3"} {
		assert.Equal(t, name, entries[i].Name.Value)
	}
	assert.Equal(t, []ast.Value{ast.SingleQuotedString("hz"), ast.Number("1000")}, entries[0].ValueList)
	assert.Equal(t, []ast.Value{ast.SingleQuotedString("sh"), ast.Number("2000")}, entries[1].ValueList)
	assert.Equal(t, []ast.Value{ast.SingleQuotedString("sh"), ast.Number("3000")}, entries[2].ValueList)
	assert.Equal(t, []ast.Value{ast.MaxValue(), ast.MaxValue()}, entries[3].ValueList)
}

func TestParsePartitionsScenario(t *testing.T) {
	ct := mustCreateTable(t, "CREATE TABLE t(a INT, b STRING, c INT) PARTITION BY RANGE COLUMNS(b,a) "+
		"(PARTITION r0 VALUES LESS THAN ('hz',1000), PARTITION r1 VALUES LESS THAN ('sh',2000), "+
		"PARTITION r2 VALUES LESS THAN (MAXVALUE,MAXVALUE)) ENGINE=mito")

	require.Len(t, ct.Partitions.Entries, 3)
	for _, v := range ct.Partitions.Entries[2].ValueList {
		assert.True(t, v.IsMaxValue())
	}
}

func TestParsePartitionsKeywordCase(t *testing.T) {
	ct := mustCreateTable(t, "create table t (a int) partition by range columns (a) "+
		"(partition p0 values less than (-10), partition p1 values less than (maxvalue))")
	entries := ct.Partitions.Entries
	assert.Equal(t, ast.Number("-10"), entries[0].ValueList[0])
	assert.Equal(t, ast.MaxValue(), entries[1].ValueList[0])
}

func TestValidatePartitions(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{
			name: "undefined column",
			sql: `
CREATE TABLE rcx ( a INT, b STRING, c INT )
PARTITION BY RANGE COLUMNS(b, x) (
  PARTITION r0 VALUES LESS THAN ('hz', 1000),
  PARTITION r1 VALUES LESS THAN ('sh', 2000),
  PARTITION r3 VALUES LESS THAN (MAXVALUE, MAXVALUE),
)`,
			want: `Partition column "x" not defined!`,
		},
		{
			name: "duplicate name",
			sql: `
CREATE TABLE rcx ( a INT, b STRING, c INT )
PARTITION BY RANGE COLUMNS(b, a) (
  PARTITION r0 VALUES LESS THAN ('hz', 1000),
  PARTITION r1 VALUES LESS THAN ('sh', 2000),
  PARTITION r2 VALUES LESS THAN ('sz', 3000),
  PARTITION r1 VALUES LESS THAN (MAXVALUE, MAXVALUE),
)`,
			want: "Duplicate partition names: r1",
		},
		{
			name: "arity",
			sql: `
CREATE TABLE rcx ( a INT, b STRING, c INT )
PARTITION BY RANGE COLUMNS(b, a) (
  PARTITION r0 VALUES LESS THAN ('hz', 1000),
  PARTITION r1 VALUES LESS THAN ('sh'),
  PARTITION r3 VALUES LESS THAN (MAXVALUE, MAXVALUE),
)`,
			want: "Partition value list does not match column list.",
		},
		{
			name: "decreasing first dimension",
			sql: `
CREATE TABLE rcx ( a INT, b STRING, c INT )
PARTITION BY RANGE COLUMNS(b, a) (
  PARTITION r0 VALUES LESS THAN ('sh', 1000),
  PARTITION r1 VALUES LESS THAN ('hz', 2000),
  PARTITION r3 VALUES LESS THAN (MAXVALUE, MAXVALUE),
)`,
			want: "VALUES LESS THAN value must be strictly increasing for each partition.",
		},
		{
			name: "decreasing second dimension",
			sql: `
CREATE TABLE rcx ( a INT, b STRING, c INT )
PARTITION BY RANGE COLUMNS(b, a) (
  PARTITION r0 VALUES LESS THAN ('hz', 2000),
  PARTITION r1 VALUES LESS THAN ('hz', 1000),
  PARTITION r3 VALUES LESS THAN (MAXVALUE, MAXVALUE),
)`,
			want: "VALUES LESS THAN value must be strictly increasing for each partition.",
		},
		{
			name: "identical bounds",
			sql: `
CREATE TABLE rcx ( a INT, b STRING, c INT )
PARTITION BY RANGE COLUMNS(b, a) (
  PARTITION r0 VALUES LESS THAN ('hz', 1000),
  PARTITION r1 VALUES LESS THAN ('hz', 1000),
  PARTITION r3 VALUES LESS THAN (MAXVALUE, MAXVALUE),
)`,
			want: "VALUES LESS THAN value must be strictly increasing for each partition.",
		},
		{
			name: "maxvalue before concrete",
			sql: `
CREATE TABLE rcx ( a INT, b STRING, c INT )
PARTITION BY RANGE COLUMNS(b, a) (
  PARTITION r0 VALUES LESS THAN ('hz', 1000),
  PARTITION r3 VALUES LESS THAN (MAXVALUE, 2000),
  PARTITION r1 VALUES LESS THAN ('sh', 3000),
)`,
			want: "VALUES LESS THAN value must be strictly increasing for each partition.",
		},
		{
			name: "missing maxvalue tail",
			sql: `
CREATE TABLE rcx ( a INT, b STRING, c INT )
PARTITION BY RANGE COLUMNS(b, a) (
  PARTITION r0 VALUES LESS THAN ('hz', 1000),
  PARTITION r1 VALUES LESS THAN ('sh', 2000),
  PARTITION r3 VALUES LESS THAN (MAXVALUE, 9999),
)`,
			want: "Please provide an extra partition that is bounded by 'MAXVALUE'.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.sql, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, errors.CodeInvalidSQL, errors.GetCode(err))
		})
	}

	_, err := Parse(validPartitioned, nil)
	require.NoError(t, err)
}

func TestPartitionSyntaxErrors(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{
			sql: `
CREATE TABLE rcx ( a INT, b STRING, c INT )
PARTITION RANGE COLUMNS(b, a) (
  PARTITION r3 VALUES LESS THAN (MAXVALUE, MAXVALUE),
)`,
			want: "sql parser error: Expected BY, found: RANGE",
		},
		{
			sql: `
CREATE TABLE rcx ( a INT, b STRING, c INT )
PARTITION BY RANGE COLUMNS(b, a) (
  PARTITION r0 VALUES THAN ('hz', 1000),
  PARTITION r3 VALUES LESS THAN (MAXVALUE, MAXVALUE),
)`,
			want: "sql parser error: Expected LESS, found: THAN",
		},
		{
			sql: `
CREATE TABLE rcx ( a INT, b STRING, c INT )
PARTITION BY RANGE COLUMNS(b, a) (
  PARTITION r0 VALUES LESS THAN ('hz', 1000),
  PARTITION r3 VALUES LESS THAN (MAXVALUE, MAXVALU),
)`,
			want: "sql parser error: Expected a concrete value, found: MAXVALU",
		},
		{
			sql:  "CREATE TABLE t (a INT) PARTITION BY RANGE COLUMNS () (PARTITION r0 VALUES LESS THAN (MAXVALUE))",
			want: "sql parser error: Expected identifier, found: )",
		},
	}

	for _, tt := range tests {
		_, err := Parse(tt.sql, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), tt.want)
		assert.Equal(t, errors.CodeSyntax, errors.GetCode(err))
	}
}

func TestPartitionBoundTypeMismatch(t *testing.T) {
	_, err := Parse("CREATE TABLE t (a INT) PARTITION BY RANGE COLUMNS (a) "+
		"(PARTITION p0 VALUES LESS THAN ('x'), PARTITION p1 VALUES LESS THAN ('y'), PARTITION p2 VALUES LESS THAN (MAXVALUE))", nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidSQL, errors.GetCode(err))
	assert.Contains(t, err.Error(), `column "a"`)
}

func TestParseEngineAndOptions(t *testing.T) {
	ct := mustCreateTable(t, "CREATE TABLE t (a INT) ENGINE = file WITH (ttl = '7d', regions = 3, append_mode = true)")
	assert.Equal(t, "file", ct.Engine)
	require.Len(t, ct.Options, 3)
	assert.Equal(t, ast.SQLOption{Name: ast.NewIdent("ttl"), Value: ast.SingleQuotedString("7d")}, ct.Options[0])
	assert.Equal(t, ast.Number("3"), ct.Options[1].Value)
	assert.Equal(t, ast.Boolean(true), ct.Options[2].Value)
}

func TestParseStatements(t *testing.T) {
	stmts, err := ParseStatements("CREATE DATABASE a; ; CREATE TABLE a.t (x INT);", nil)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.IsType(t, &ast.CreateDatabase{}, stmts[0])
	assert.IsType(t, &ast.CreateTable{}, stmts[1])

	_, err = Parse("CREATE DATABASE a; CREATE DATABASE b", nil)
	require.Error(t, err)

	_, err = Parse("CREATE DATABASE a b", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end of statement")
}

func TestParseUnsupported(t *testing.T) {
	for _, sql := range []string{"SELECT * FROM t", "CREATE VIEW v AS SELECT 1", "DROP TABLE t"} {
		_, err := Parse(sql, nil)
		require.Error(t, err, sql)
		assert.Equal(t, errors.CodeUnsupported, errors.GetCode(err), sql)
	}
}

func TestParseColumnOptions(t *testing.T) {
	ct := mustCreateTable(t, "CREATE TABLE t (a INT NULL, b STRING CONSTRAINT nn NOT NULL COMMENT 'host''s name', "+
		"c TIMESTAMP DEFAULT CURRENT_TIMESTAMP TIME INDEX, d DOUBLE DEFAULT now(), e BIGINT UNSIGNED UNIQUE, f VARCHAR(32))")

	require.Len(t, ct.Columns, 6)
	assert.Equal(t, ast.OptionNull, ct.Columns[0].Options[0].Kind)

	b := ct.Columns[1]
	require.Len(t, b.Options, 2)
	assert.Equal(t, "nn", b.Options[0].Name.Value)
	assert.Equal(t, ast.OptionNotNull, b.Options[0].Kind)
	assert.Equal(t, "host's name", b.Options[1].Comment)

	// the shorthand replaces any options written before it
	assert.Equal(t, []ast.ColumnOption{ast.NotNull()}, ct.Columns[2].Options)

	d := ct.Columns[3].Options[0].Default
	require.NotNil(t, d.Function)
	assert.True(t, d.Function.Call)
	assert.Equal(t, "now()", d.String())

	assert.Equal(t, "BIGINT UNSIGNED", ct.Columns[4].DataType.Name)
	assert.Equal(t, ast.OptionUnique, ct.Columns[4].Options[0].Kind)
	assert.Equal(t, []string{"32"}, ct.Columns[5].DataType.Args)
}

func TestParseDialects(t *testing.T) {
	sql := "CREATE TABLE `my table` (`ts` TIMESTAMP TIME INDEX, \"v\" DOUBLE) -- trailing comment"

	stmt, err := Parse(sql, MySQLDialect{})
	require.NoError(t, err)
	ct := stmt.(*ast.CreateTable)
	assert.Equal(t, ast.Ident{Value: "my table", Quote: '`'}, ct.Name[0])
	assert.Equal(t, ast.Ident{Value: "v", Quote: '"'}, ct.Columns[1].Name)
	assert.Equal(t, "CREATE TABLE `my table` (`ts` TIMESTAMP NOT NULL, \"v\" DOUBLE, TIME INDEX (`ts`)) ENGINE=mito", ct.String())

	_, err = Parse(sql, GenericDialect{})
	require.Error(t, err)

	_, err = Parse("CREATE TABLE table (a INT)", nil)
	require.Error(t, err)

	d, err := DialectByName("MySQL")
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())
	_, err = DialectByName("oracle")
	assert.Error(t, err)
}

func TestStringRoundTrip(t *testing.T) {
	for _, sql := range []string{
		validPartitioned,
		monitorSugar,
		"CREATE TABLE IF NOT EXISTS db.t (a INT DEFAULT -1 /* signed */, b STRING COMMENT 'it''s', CONSTRAINT u UNIQUE (a, b)) ENGINE=mito WITH (ttl = '1d')",
		"CREATE DATABASE metrics",
	} {
		first, err := Parse(sql, nil)
		require.NoError(t, err, sql)

		second, err := Parse(first.String(), nil)
		require.NoError(t, err, first.String())
		assert.Equal(t, first, second, first.String())
	}
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("create table t (a int) with (x = -1.5); -- done", GenericDialect{})

	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []TokenKind{
		TokenWord, TokenWord, TokenWord, TokenLParen, TokenWord, TokenWord, TokenRParen,
		TokenWord, TokenLParen, TokenWord, TokenEq, TokenMinus, TokenNumber, TokenRParen,
		TokenSemicolon, TokenEOF,
	}, kinds)
	assert.Equal(t, "1.5", tokens[12].Text)
}

func TestTimestampColumnEndingTableBody(t *testing.T) {
	_, err := Parse("CREATE TABLE t(a INT, ts TIMESTAMP)", nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnexpectedToken, errors.GetCode(err))
	assert.Contains(t, err.Error(), "expected: 'TIME INDEX', found: )")

	ct := mustCreateTable(t, "CREATE TABLE t(a INT, ts TIMESTAMP TIME INDEX)")
	ti, ok := ct.TimeIndexColumn()
	require.True(t, ok)
	assert.Equal(t, "ts", ti.Value)
	assert.False(t, ct.Columns[1].IsNullable())
}

func TestUnicodeIdentifiers(t *testing.T) {
	ct := mustCreateTable(t, "CREATE TABLE t(héllo INT, données STRING)")
	require.Len(t, ct.Columns, 2)
	assert.Equal(t, ast.NewIdent("héllo"), ct.Columns[0].Name)
	assert.Equal(t, ast.NewIdent("données"), ct.Columns[1].Name)
	assert.Equal(t, "CREATE TABLE t (héllo INT, données STRING) ENGINE=mito", ct.String())

	ct = mustCreateTable(t, `CREATE TABLE "tä" (ünï INT, "x" INT, _ß1 INT)`)
	assert.Equal(t, ast.Ident{Value: "tä", Quote: '"'}, ct.Name[0])
	assert.Equal(t, ast.NewIdent("ünï"), ct.Columns[0].Name)
	assert.Equal(t, ast.Ident{Value: "x", Quote: '"'}, ct.Columns[1].Name)
	assert.Equal(t, ast.NewIdent("_ß1"), ct.Columns[2].Name)
}

func TestTokenizeUnicodeWords(t *testing.T) {
	tokens := tokenize("héllo données 'çà' x1", GenericDialect{})
	require.Len(t, tokens, 5)
	assert.Equal(t, TokenWord, tokens[0].Kind)
	assert.Equal(t, "héllo", tokens[0].Text)
	assert.Equal(t, TokenWord, tokens[1].Kind)
	assert.Equal(t, "données", tokens[1].Text)
	assert.Equal(t, rune(0), tokens[1].Quote)
	assert.Equal(t, TokenString, tokens[2].Kind)
	assert.Equal(t, "çà", tokens[2].Text)
	assert.Equal(t, TokenWord, tokens[3].Kind)
	assert.Equal(t, TokenEOF, tokens[4].Kind)
}

func TestInvalidUTF8(t *testing.T) {
	sql := "CREATE TABLE t (a STRING) PARTITION BY RANGE COLUMNS (a) (" +
		"PARTITION r0 VALUES LESS THAN ('\xff\xfe'), PARTITION r1 VALUES LESS THAN (MAXVALUE))"
	_, err := Parse(sql, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSyntax, errors.GetCode(err))
	assert.Contains(t, err.Error(), "Expected valid UTF-8 text")

	_, err = ParseValue("'\xff'", nil)
	assert.Equal(t, errors.CodeSyntax, errors.GetCode(err))
}

func TestEmptyPartitionLists(t *testing.T) {
	_, err := Parse("CREATE TABLE t (a INT) PARTITION BY RANGE COLUMNS (a) "+
		"(PARTITION r0 VALUES LESS THAN (), PARTITION r1 VALUES LESS THAN (MAXVALUE))", nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidSQL, errors.GetCode(err))
	assert.Contains(t, err.Error(), "Partition value list does not match column list.")

	_, err = Parse("CREATE TABLE t (a INT) PARTITION BY RANGE COLUMNS (a) ()", nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidSQL, errors.GetCode(err))
	assert.Contains(t, err.Error(), "Please provide an extra partition that is bounded by 'MAXVALUE'.")
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		text string
		want ast.Value
	}{
		{"42", ast.Number("42")},
		{"-1.5", ast.Number("-1.5")},
		{"'hz'", ast.SingleQuotedString("hz")},
		{"true", ast.Boolean(true)},
		{"NULL", ast.Null()},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.text, nil)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}

	for _, text := range []string{"MAXVALUE", "1 2", "", "host"} {
		_, err := ParseValue(text, nil)
		assert.Error(t, err, text)
	}
}
