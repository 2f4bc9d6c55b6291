package reference

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/refdash/pkg/core"
	"github.com/leapstack-labs/refdash/pkg/dialect"
)

// Column names of the reference measurements table.
const (
	ColSystem      = "System"
	ColChannel     = "Channel"
	ColDate        = "Date"
	ColOperator    = "Operator"
	ColIntegration = "Spectrometer_Integration"
	ColAveraging   = "Spectrometer_Averaging"
	ColSpectraUUID = "Spectra_UUID"
	ColSpectra     = "Spectra"
	ColExistsToday = "Record_Exists_Today"
)

// MeasurementColumns are selected by the main query, in order.
var MeasurementColumns = []string{
	ColSystem, ColChannel, ColDate, ColOperator,
	ColIntegration, ColAveraging, ColSpectraUUID, ColSpectra,
}

// QueryBuilder renders the three dashboard queries for one table and dialect.
type QueryBuilder struct {
	d     *dialect.Dialect
	table string
}

// NewQueryBuilder returns a builder for table. A nil dialect uses ANSI defaults.
func NewQueryBuilder(d *dialect.Dialect, table string) *QueryBuilder {
	if d == nil {
		d = dialect.NewDialect("ansi").Build()
	}
	return &QueryBuilder{d: d, table: table}
}

func (q *QueryBuilder) col(name string) string {
	return q.d.QuoteIdentifier(name)
}

// Status returns the per-system "record exists today" query.
func (q *QueryBuilder) Status() string {
	table := q.d.QuoteTable(q.table)
	system := q.col(ColSystem)
	return fmt.Sprintf(`SELECT main.%[2]s AS %[2]s,
       CASE
           WHEN EXISTS (
               SELECT 1
               FROM %[1]s AS sub
               WHERE sub.%[2]s = main.%[2]s AND sub.%[3]s = %[4]s
           ) THEN TRUE
           ELSE FALSE
       END AS %[5]s
FROM %[1]s AS main
GROUP BY main.%[2]s
ORDER BY main.%[2]s`, table, system, q.col(ColDate), q.d.CurrentDate(), q.col(ColExistsToday))
}

// Systems returns the distinct system names query.
func (q *QueryBuilder) Systems() string {
	system := q.col(ColSystem)
	return fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s", system, q.d.QuoteTable(q.table), system)
}

// Measurements returns the filtered main query and its bound arguments.
// From > To is not an error; the query simply matches nothing.
func (q *QueryBuilder) Measurements(f core.Filter) (string, []any) {
	cols := make([]string, len(MeasurementColumns))
	for i, c := range MeasurementColumns {
		cols[i] = q.col(c)
	}

	sql := fmt.Sprintf(`SELECT %s
FROM %s
WHERE %s BETWEEN %s AND %s
  AND %s = %s
  AND %s = %s
ORDER BY %s DESC, %s`,
		strings.Join(cols, ", "),
		q.d.QuoteTable(q.table),
		q.col(ColDate), q.d.CastDate(q.d.FormatPlaceholder(1)), q.d.CastDate(q.d.FormatPlaceholder(2)),
		q.col(ColChannel), q.d.FormatPlaceholder(3),
		q.col(ColSystem), q.d.FormatPlaceholder(4),
		q.col(ColDate), q.col(ColSpectraUUID),
	)
	args := []any{
		f.From.Format(core.DateLayout),
		f.To.Format(core.DateLayout),
		f.Channel,
		f.System,
	}
	return sql, args
}
