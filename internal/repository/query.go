package repository

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"task_manager/internal/model"
)

// Column lists in scan order
const (
	AccountColumns = "id, identificacion, nombre, apellido, contrasena_hash, creado_en, actualizado_en"
	TaskColumns    = "id, usuario_id, titulo, descripcion, fecha_limite, creado_en, actualizado_en"
)

// Account listing defaults
const (
	DefaultPerPage = 10
	MaxPerPage     = 100

	// MaxPage keeps the computed OFFSET far from integer overflow
	MaxPage = 1_000_000
)

// Dialect carries the engine specific parts of generated SQL
type Dialect struct {
	Placeholder func(n int) string
	Time        func(t time.Time) any
	Date        func(d model.Date) any

	// Lower names the SQL function that case folds text for searches. It
	// must fold the same way as strings.ToLower. Empty means LOWER.
	Lower string
}

func (d Dialect) lower(expr string) string {
	fn := d.Lower
	if fn == "" {
		fn = "LOWER"
	}
	return fn + "(" + expr + ")"
}

// DollarPlaceholder renders $1, $2, ...
func DollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

// QuestionPlaceholder renders ? for every argument
func QuestionPlaceholder(int) string { return "?" }

// Query accumulates WHERE conditions and their arguments
type Query struct {
	dialect    Dialect
	conditions []string
	args       []any
}

// NewQuery starts an empty condition list
func NewQuery(d Dialect) *Query {
	return &Query{dialect: d}
}

// Arg registers a bind argument and returns its placeholder
func (q *Query) Arg(v any) string {
	q.args = append(q.args, v)
	return q.dialect.Placeholder(len(q.args))
}

// Where adds a condition joined with AND
func (q *Query) Where(cond string) {
	q.conditions = append(q.conditions, cond)
}

// Args returns the bind arguments registered so far
func (q *Query) Args() []any {
	return q.args
}

func (q *Query) whereClause() string {
	if len(q.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conditions, " AND ")
}

// likePattern builds a case folded substring pattern
func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// TaskOrderBy maps the requested sort onto the whitelist. Unknown fields fall
// back to the creation date, unknown directions to descending.
func TaskOrderBy(sortBy, order string) string {
	dir := direction(order, "DESC")
	switch sortBy {
	case model.TaskSortTitle:
		return fmt.Sprintf("UPPER(SUBSTR(titulo, 1, 1)) %s, id ASC", dir)
	case model.TaskSortDueDate:
		// tasks without a due date always sort last
		return fmt.Sprintf("fecha_limite IS NULL, fecha_limite %s, id ASC", dir)
	case model.TaskSortCreatedAt:
		return fmt.Sprintf("creado_en %s, id %s", dir, dir)
	default:
		return "creado_en DESC, id DESC"
	}
}

var accountSortColumns = map[string]bool{
	"id":             true,
	"identificacion": true,
	"nombre":         true,
	"apellido":       true,
	"creado_en":      true,
	"actualizado_en": true,
}

// AccountOrderBy maps the requested sort onto the whitelist, defaulting to id ascending
func AccountOrderBy(sortBy, order string) string {
	if !accountSortColumns[sortBy] {
		return "id ASC"
	}
	dir := direction(order, "ASC")
	if sortBy == "id" {
		return "id " + dir
	}
	return fmt.Sprintf("%s %s, id ASC", sortBy, dir)
}

func direction(order, fallback string) string {
	switch strings.ToLower(order) {
	case model.OrderAsc:
		return "ASC"
	case model.OrderDesc:
		return "DESC"
	default:
		return fallback
	}
}

// BuildTaskList returns the listing query for one owner
func BuildTaskList(d Dialect, userID int64, f model.TaskFilter) (string, []any) {
	q := NewQuery(d)
	q.Where("usuario_id = " + q.Arg(userID))

	if s := strings.TrimSpace(f.Search); s != "" {
		q.Where(fmt.Sprintf("(%s LIKE %s OR %s LIKE %s)",
			d.lower("titulo"), q.Arg(likePattern(s)),
			d.lower("COALESCE(descripcion, '')"), q.Arg(likePattern(s))))
	}
	if f.DateFrom != nil {
		q.Where("fecha_limite >= " + q.Arg(d.Date(*f.DateFrom)))
	}
	if f.DateTo != nil {
		q.Where("fecha_limite <= " + q.Arg(d.Date(*f.DateTo)))
	}

	sql := "SELECT " + TaskColumns + " FROM " + TableTasks + q.whereClause() +
		" ORDER BY " + TaskOrderBy(f.SortBy, f.Order)
	return sql, q.Args()
}

// NormalizeAccountFilter applies the paging defaults and bounds
func NormalizeAccountFilter(f model.AccountFilter) model.AccountFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	return f
}

// AccountListQuery holds the count and page statements of an account listing
type AccountListQuery struct {
	CountSQL  string
	CountArgs []any
	PageSQL   string
	PageArgs  []any
}

// BuildAccountList returns the statements for one page of an account table.
// The filter must be normalized.
func BuildAccountList(d Dialect, table string, f model.AccountFilter) AccountListQuery {
	q := NewQuery(d)

	if s := strings.TrimSpace(f.Search); s != "" {
		p := likePattern(s)
		q.Where(fmt.Sprintf("(%s LIKE %s OR %s LIKE %s OR %s LIKE %s)",
			d.lower("nombre"), q.Arg(p),
			d.lower("apellido"), q.Arg(p),
			d.lower("identificacion"), q.Arg(p)))
	}
	if f.DateFrom != nil {
		from := model.NewDate(*f.DateFrom).Time
		q.Where("creado_en >= " + q.Arg(d.Time(from)))
	}
	if f.DateTo != nil {
		// the whole end day is included
		next := model.NewDate(*f.DateTo).AddDate(0, 0, 1)
		q.Where("creado_en < " + q.Arg(d.Time(next)))
	}

	where := q.whereClause()
	countArgs := append([]any(nil), q.Args()...)

	limit := q.Arg(f.PerPage)
	offset := q.Arg((f.Page - 1) * f.PerPage)

	return AccountListQuery{
		CountSQL:  "SELECT COUNT(*) FROM " + table + where,
		CountArgs: countArgs,
		PageSQL: "SELECT " + AccountColumns + " FROM " + table + where +
			" ORDER BY " + AccountOrderBy(f.SortBy, f.Order) +
			" LIMIT " + limit + " OFFSET " + offset,
		PageArgs: q.Args(),
	}
}

// PageCount is the number of pages needed for total rows
func PageCount(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}
