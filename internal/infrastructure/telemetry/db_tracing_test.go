package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedNote struct {
	ID   uint   `gorm:"primaryKey"`
	Text string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedNote{}))
	return db
}

func setupRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func hasAttr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupRecorder(t)

	err := RegisterDBTracing(db, DBTracingConfig{Enabled: false, TracerProvider: tp}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, db.Create(&tracedNote{Text: "a"}).Error)
	assert.Empty(t, recorder.Ended())
}

func TestRegisterDBTracing_RecordsQuerySpans(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupRecorder(t)

	err := RegisterDBTracing(db, DBTracingConfig{Enabled: true, DBName: "sqlite", TracerProvider: tp}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, db.WithContext(context.Background()).Create(&tracedNote{Text: "a"}).Error)
	var notes []tracedNote
	require.NoError(t, db.WithContext(context.Background()).Find(&notes).Error)

	assert.NotEmpty(t, recorder.Ended())
	assert.Len(t, notes, 1)
}

func TestAnnotateQuerySpan(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupRecorder(t)

	ctx, span := tp.Tracer("test").Start(context.Background(), "query")
	tx := db.WithContext(ctx)
	tx = tx.InstanceSet(queryStartKey, time.Now().Add(-time.Second))
	tx.Statement.Table = "traced_notes"
	tx.Statement.RowsAffected = 3

	annotateQuerySpan(tx, 200*time.Millisecond)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := ended[0].Attributes()

	slow, ok := hasAttr(attrs, "db.slow_query")
	require.True(t, ok)
	assert.True(t, slow.AsBool())
	rows, ok := hasAttr(attrs, "db.rows_affected")
	require.True(t, ok)
	assert.Equal(t, int64(3), rows.AsInt64())
	table, ok := hasAttr(attrs, "db.sql.table")
	require.True(t, ok)
	assert.Equal(t, "traced_notes", table.AsString())
}

func TestAnnotateQuerySpan_FastQueryNotMarked(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupRecorder(t)

	ctx, span := tp.Tracer("test").Start(context.Background(), "query")
	tx := db.WithContext(ctx)
	tx = tx.InstanceSet(queryStartKey, time.Now())

	annotateQuerySpan(tx, time.Hour)
	span.End()

	_, ok := hasAttr(recorder.Ended()[0].Attributes(), "db.slow_query")
	assert.False(t, ok)
}
