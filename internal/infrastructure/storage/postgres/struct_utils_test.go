package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stockops/internal/core/entity"
	"stockops/internal/core/id"
)

type mockRecord struct {
	entity.Base
	Number   string     `db:"operation_number" json:"operationNumber"`
	Status   string     `db:"status" json:"status"`
	Ignored  []string   `db:"-" json:"ignored"`
	Internal *time.Time `json:"internal"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockRecord]()

	expectedCols := []string{
		"id", "version", "created_at", "updated_at", "operation_number", "status",
	}

	assert.Equal(t, expectedCols, cols)
	assert.NotContains(t, cols, "ignored")
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	rec := mockRecord{
		Base: entity.Base{
			ID:        id.New(),
			Version:   5,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Number:  "ADJ-2026-00001",
		Status:  "NEW",
		Ignored: []string{"not persisted"},
	}

	m := StructToMap(rec)

	assert.Equal(t, rec.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "ADJ-2026-00001", m["operation_number"])
	assert.Equal(t, "NEW", m["status"])
	assert.NotContains(t, m, "-")
	assert.NotContains(t, m, "internal")
}

func TestStructToMap_Pointer(t *testing.T) {
	rec := &mockRecord{Number: "ADJ-2026-00002"}

	m := StructToMap(rec)

	assert.Equal(t, "ADJ-2026-00002", m["operation_number"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("text"))
}
