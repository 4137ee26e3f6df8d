package klines

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Дедупликация и атомарность буфера держатся на форме SQL —
// фиксируем её, чтобы правка запроса не прошла незамеченной.

func TestCreateTableKeysFullCandleKey(t *testing.T) {
	// ключ именно тройной: при одном symbol свечи разных интервалов
	// и периодов затирали бы друг друга
	assert.Contains(t, createTableSQL, "PRIMARY KEY (symbol, interval, start_ms)")
}

func TestUpsertIsIdempotentPerKey(t *testing.T) {
	require.Contains(t, upsertSQL, "ON CONFLICT (symbol, interval, start_ms) DO UPDATE")

	// повтор свечи обновляет все поля: последняя запись побеждает
	for _, col := range []string{"open", "high", "low", "close", "volume"} {
		re := regexp.MustCompile(col + `\s*=\s*EXCLUDED\.` + col)
		assert.True(t, re.MatchString(upsertSQL), "колонка %s не обновляется при конфликте", col)
	}
}

func TestDrainIsSingleDeleteReturning(t *testing.T) {
	sql := strings.TrimSpace(drainSQL)

	require.True(t, strings.HasPrefix(sql, "DELETE FROM future_klines"))
	assert.Contains(t, sql, "RETURNING symbol, interval, start_ms, open, high, low, close, volume")

	// один statement без WHERE: отдали всё — удалили ровно то, что отдали
	assert.NotContains(t, sql, ";")
	assert.NotContains(t, strings.ToUpper(sql), "SELECT")
	assert.NotContains(t, strings.ToUpper(sql), "WHERE")
}

func TestUpsertColumnsMatchDrainColumns(t *testing.T) {
	// drain возвращает те же колонки, что пишет upsert, в том же порядке —
	// Scan в DrainAll полагается на это
	cols := "symbol, interval, start_ms, open, high, low, close, volume"
	assert.Contains(t, upsertSQL, "("+cols+")")
	assert.Contains(t, drainSQL, "RETURNING "+cols)
}
