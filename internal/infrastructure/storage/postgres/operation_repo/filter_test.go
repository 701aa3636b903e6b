package operation_repo

import (
	"testing"
	"time"

	"stockops/internal/core/id"
	"stockops/internal/domain/operations"
)

const operationSelect = "SELECT id, version, created_at, updated_at, operation_number, " +
	"operation_type_id, status, source_id, destination_id, operation_date, " +
	"operation_order, creator_id FROM stock_operations"

func buildSQL(t *testing.T, q interface {
	ToSql() (string, []any, error)
}) (string, []any) {
	t.Helper()
	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	return sql, args
}

func TestBuildByRoom(t *testing.T) {
	repo := NewOperationRepo(nil)
	roomID := id.New()

	sql, args := buildSQL(t, repo.buildByRoom(roomID))

	wantSQL := operationSelect +
		" WHERE (source_id = $1 OR destination_id = $2) ORDER BY created_at DESC"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 2 || args[0] != roomID || args[1] != roomID {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildForUser(t *testing.T) {
	repo := NewOperationRepo(nil)
	userID := id.New()
	typeA, typeB := id.New(), id.New()

	t.Run("creator and approvable types", func(t *testing.T) {
		scope := operations.UserScope{UserID: userID, TypeIDs: []id.ID{typeA, typeB}}

		sql, args := buildSQL(t, repo.buildForUser(scope))

		wantSQL := operationSelect +
			" WHERE (creator_id = $1 OR operation_type_id IN ($2,$3)) ORDER BY created_at DESC"
		if sql != wantSQL {
			t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
		}
		if len(args) != 3 {
			t.Errorf("unexpected args count: %d", len(args))
		}
	})

	t.Run("no approvable types matches creator only", func(t *testing.T) {
		scope := operations.UserScope{UserID: userID}

		sql, _ := buildSQL(t, repo.buildForUser(scope))

		wantSQL := operationSelect +
			" WHERE (creator_id = $1 OR (1=0)) ORDER BY created_at DESC"
		if sql != wantSQL {
			t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
		}
	})

	t.Run("status narrows the scope", func(t *testing.T) {
		status := operations.StatusPending
		scope := operations.UserScope{UserID: userID, TypeIDs: []id.ID{typeA}, Status: &status}

		sql, args := buildSQL(t, repo.buildForUser(scope))

		wantSQL := operationSelect +
			" WHERE (creator_id = $1 OR operation_type_id IN ($2)) AND status = $3 ORDER BY created_at DESC"
		if sql != wantSQL {
			t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
		}
		if args[2] != operations.StatusPending {
			t.Errorf("unexpected status arg: %v", args[2])
		}
	})
}

func TestBuildTemplate(t *testing.T) {
	repo := NewOperationRepo(nil)

	t.Run("empty template lists everything", func(t *testing.T) {
		sql, args := buildSQL(t, repo.buildTemplate(operations.Template{}))

		wantSQL := operationSelect + " ORDER BY created_at DESC"
		if sql != wantSQL {
			t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
		}
		if len(args) != 0 {
			t.Errorf("expected no args, got %v", args)
		}
	})

	t.Run("exact number match", func(t *testing.T) {
		tpl := operations.Template{OperationNumber: "ADJ-2026-00001"}

		sql, args := buildSQL(t, repo.buildTemplate(tpl))

		wantSQL := operationSelect +
			" WHERE operation_number = $1 ORDER BY created_at DESC"
		if sql != wantSQL {
			t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
		}
		if args[0] != "ADJ-2026-00001" {
			t.Errorf("unexpected args: %v", args)
		}
	})

	t.Run("wildcard number match", func(t *testing.T) {
		tpl := operations.Template{OperationNumber: "ADJ", NumberWildcard: true}

		sql, args := buildSQL(t, repo.buildTemplate(tpl))

		wantSQL := operationSelect +
			" WHERE operation_number ILIKE $1 ORDER BY created_at DESC"
		if sql != wantSQL {
			t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
		}
		if args[0] != "%ADJ%" {
			t.Errorf("unexpected args: %v", args)
		}
	})

	t.Run("status type and date bounds", func(t *testing.T) {
		status := operations.StatusCompleted
		typeID := id.New()
		from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
		tpl := operations.Template{
			Status:          &status,
			OperationTypeID: &typeID,
			DateFrom:        &from,
			DateTo:          &to,
		}

		sql, args := buildSQL(t, repo.buildTemplate(tpl))

		wantSQL := operationSelect +
			" WHERE status = $1 AND operation_type_id = $2" +
			" AND operation_date >= $3 AND operation_date <= $4 ORDER BY created_at DESC"
		if sql != wantSQL {
			t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
		}
		if len(args) != 4 {
			t.Errorf("unexpected args count: %d", len(args))
		}
	})
}

func TestBuildSince(t *testing.T) {
	repo := NewOperationRepo(nil)
	since := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	sql, args := buildSQL(t, repo.buildSince(since))

	wantSQL := operationSelect +
		" WHERE operation_date > $1 ORDER BY operation_date ASC"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if args[0] != since {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildFuture(t *testing.T) {
	repo := NewOperationRepo(nil)
	ref := &operations.StockOperation{
		OperationDate:  time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		OperationOrder: 3,
	}

	sql, args := buildSQL(t, repo.buildFuture(ref))

	wantSQL := operationSelect +
		" WHERE ((operation_date >= $1 AND operation_date <= $2 AND operation_order > $3)" +
		" OR operation_date > $4)" +
		" ORDER BY operation_date::date ASC, operation_order ASC, operation_date ASC"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args count: %d", len(args))
	}

	dayStart, dayEnd := operations.DayRange(ref.OperationDate)
	if args[0] != dayStart || args[1] != dayEnd {
		t.Errorf("unexpected day bounds: %v, %v", args[0], args[1])
	}
	if args[2] != 3 {
		t.Errorf("unexpected order arg: %v", args[2])
	}
	if args[3] != dayEnd {
		t.Errorf("unexpected later-day bound: %v", args[3])
	}
}

func TestBuildByDate(t *testing.T) {
	repo := NewOperationRepo(nil)
	day := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)

	sql, args := buildSQL(t, repo.buildByDate(day))

	wantSQL := operationSelect +
		" WHERE operation_date >= $1 AND operation_date <= $2" +
		" ORDER BY operation_order ASC, operation_date ASC"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}

	dayStart, dayEnd := operations.DayRange(day)
	if args[0] != dayStart || args[1] != dayEnd {
		t.Errorf("unexpected day bounds: %v, %v", args[0], args[1])
	}
}

func TestBuildListItems(t *testing.T) {
	repo := NewOperationRepo(nil)
	opID := id.New()

	sql, args := buildSQL(t, repo.buildListItems(opID))

	wantSQL := "SELECT oi.id, oi.operation_id, oi.item_id, it.name AS item_name, " +
		"oi.quantity, oi.expiration, oi.calculated_expiration, oi.calculated_batch, " +
		"oi.batch_operation_id " +
		"FROM stock_operation_items oi " +
		"JOIN items it ON it.id = oi.item_id " +
		"WHERE oi.operation_id = $1 ORDER BY it.name ASC"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if args[0] != opID {
		t.Errorf("unexpected args: %v", args)
	}
}
