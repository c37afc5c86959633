package repository

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task_manager/internal/model"
)

var testDialect = Dialect{
	Placeholder: DollarPlaceholder,
	Time:        func(t time.Time) any { return t },
	Date:        func(d model.Date) any { return d.String() },
}

func TestTaskOrderBy(t *testing.T) {
	tests := []struct {
		sortBy, order, want string
	}{
		{"titulo", "asc", "UPPER(SUBSTR(titulo, 1, 1)) ASC, id ASC"},
		{"titulo", "DESC", "UPPER(SUBSTR(titulo, 1, 1)) DESC, id ASC"},
		{"fecha_limite", "asc", "fecha_limite IS NULL, fecha_limite ASC, id ASC"},
		{"creado_en", "asc", "creado_en ASC, id ASC"},
		{"creado_en", "sideways", "creado_en DESC, id DESC"},
		{"password", "asc", "creado_en DESC, id DESC"},
		{"titulo; DROP TABLE tareas", "asc", "creado_en DESC, id DESC"},
		{"", "", "creado_en DESC, id DESC"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, TaskOrderBy(tc.sortBy, tc.order), "sort %q order %q", tc.sortBy, tc.order)
	}
}

func TestAccountOrderBy(t *testing.T) {
	assert.Equal(t, "id ASC", AccountOrderBy("", ""))
	assert.Equal(t, "id DESC", AccountOrderBy("id", "desc"))
	assert.Equal(t, "nombre DESC, id ASC", AccountOrderBy("nombre", "desc"))
	assert.Equal(t, "creado_en ASC, id ASC", AccountOrderBy("creado_en", "bogus"))
	assert.Equal(t, "id ASC", AccountOrderBy("contrasena_hash", "desc"))
}

func TestBuildTaskList(t *testing.T) {
	from, err := model.ParseDate("2030-01-01")
	require.NoError(t, err)
	to, err := model.ParseDate("2030-12-31")
	require.NoError(t, err)

	sql, args := BuildTaskList(testDialect, 7, model.TaskFilter{
		Search:   "  Compras ",
		DateFrom: &from,
		DateTo:   &to,
		SortBy:   model.TaskSortTitle,
		Order:    model.OrderAsc,
	})

	assert.Equal(t, "SELECT "+TaskColumns+" FROM tareas WHERE usuario_id = $1"+
		" AND (LOWER(titulo) LIKE $2 OR LOWER(COALESCE(descripcion, '')) LIKE $3)"+
		" AND fecha_limite >= $4 AND fecha_limite <= $5"+
		" ORDER BY UPPER(SUBSTR(titulo, 1, 1)) ASC, id ASC", sql)
	assert.Equal(t, []any{int64(7), "%compras%", "%compras%", "2030-01-01", "2030-12-31"}, args)
}

func TestBuildTaskList_FoldsSearchWithDialectFunction(t *testing.T) {
	d := testDialect
	d.Placeholder = QuestionPlaceholder
	d.Lower = "unicode_lower"

	sql, args := BuildTaskList(d, 3, model.TaskFilter{Search: "ÁRBOL"})

	assert.Contains(t, sql, "(unicode_lower(titulo) LIKE ? OR unicode_lower(COALESCE(descripcion, '')) LIKE ?)")
	assert.Equal(t, []any{int64(3), "%árbol%", "%árbol%"}, args)
}

func TestBuildTaskList_NoFilters(t *testing.T) {
	d := testDialect
	d.Placeholder = QuestionPlaceholder

	sql, args := BuildTaskList(d, 3, model.TaskFilter{})

	assert.Equal(t, "SELECT "+TaskColumns+" FROM tareas WHERE usuario_id = ? ORDER BY creado_en DESC, id DESC", sql)
	assert.Equal(t, []any{int64(3)}, args)
}

func TestBuildAccountList(t *testing.T) {
	from := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	f := NormalizeAccountFilter(model.AccountFilter{
		Page:     3,
		PerPage:  5,
		Search:   "ana",
		DateFrom: &from,
		DateTo:   &to,
		SortBy:   "apellido",
		Order:    "asc",
	})

	q := BuildAccountList(testDialect, TableUsers, f)

	where := " WHERE (LOWER(nombre) LIKE $1 OR LOWER(apellido) LIKE $2 OR LOWER(identificacion) LIKE $3)" +
		" AND creado_en >= $4 AND creado_en < $5"
	assert.Equal(t, "SELECT COUNT(*) FROM usuarios"+where, q.CountSQL)
	assert.Len(t, q.CountArgs, 5)
	assert.Equal(t, time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC), q.CountArgs[4])

	assert.Equal(t, "SELECT "+AccountColumns+" FROM usuarios"+where+
		" ORDER BY apellido ASC, id ASC LIMIT $6 OFFSET $7", q.PageSQL)
	require.Len(t, q.PageArgs, 7)
	assert.Equal(t, 5, q.PageArgs[5])
	assert.Equal(t, 10, q.PageArgs[6])
}

func TestNormalizeAccountFilter(t *testing.T) {
	f := NormalizeAccountFilter(model.AccountFilter{Page: -2, PerPage: 0})
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPerPage, f.PerPage)

	f = NormalizeAccountFilter(model.AccountFilter{Page: 2, PerPage: 1000})
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, MaxPerPage, f.PerPage)

	f = NormalizeAccountFilter(model.AccountFilter{Page: math.MaxInt, PerPage: MaxPerPage})
	assert.Equal(t, MaxPage, f.Page)
	q := BuildAccountList(testDialect, TableUsers, f)
	assert.Equal(t, (MaxPage-1)*MaxPerPage, q.PageArgs[len(q.PageArgs)-1])
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 0, PageCount(5, 0))
}
