package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectToSQL(t *testing.T) {
	query, args, err := Select("id", "total_points").
		From("users").
		Where(Eq("is_admin", false), IsNull("deleted_at")).
		OrderBy("total_points DESC", "username").
		Limit(50).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "SELECT id, total_points FROM users WHERE is_admin = $1 AND deleted_at IS NULL ORDER BY total_points DESC, username LIMIT 50"
	if query != want {
		t.Fatalf("query:\n got=%q\nwant=%q", query, want)
	}
	if !reflect.DeepEqual(args, []any{false}) {
		t.Fatalf("args: got=%v", args)
	}
}

func TestSelectRequiresTable(t *testing.T) {
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestInCondition(t *testing.T) {
	query, args, err := Select("id").From("predictions").
		Where(In("user_id", []any{"u1", "u2"})).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}
	want := "SELECT id FROM predictions WHERE user_id IN ($1, $2)"
	if query != want {
		t.Fatalf("query: got=%q want=%q", query, want)
	}
	if !reflect.DeepEqual(args, []any{"u1", "u2"}) {
		t.Fatalf("args: got=%v", args)
	}
}

func TestEmptyInConditionMatchesNothing(t *testing.T) {
	query, _, err := Select("id").From("predictions").
		Where(In("user_id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}
	want := "SELECT id FROM predictions WHERE 1=0"
	if query != want {
		t.Fatalf("query: got=%q want=%q", query, want)
	}
}

func TestUpdateSetExprRelativeIncrement(t *testing.T) {
	query, args, err := Update("users").
		SetExpr("total_points", "total_points + ?", 7).
		SetExpr("last_updated_at", "NOW()").
		Where(Eq("id", "u1")).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "UPDATE users SET total_points = total_points + $1, last_updated_at = NOW() WHERE id = $2"
	if query != want {
		t.Fatalf("query:\n got=%q\nwant=%q", query, want)
	}
	if !reflect.DeepEqual(args, []any{7, "u1"}) {
		t.Fatalf("args: got=%v", args)
	}
}

func TestInsertToSQL(t *testing.T) {
	query, args, err := InsertInto("seasons").
		Columns("id", "name", "status").
		Values("s1", "2026", "active").
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "INSERT INTO seasons (id, name, status) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING"
	if query != want {
		t.Fatalf("query:\n got=%q\nwant=%q", query, want)
	}
	if !reflect.DeepEqual(args, []any{"s1", "2026", "active"}) {
		t.Fatalf("args: got=%v", args)
	}
}

func TestInsertRowArityChecked(t *testing.T) {
	_, _, err := InsertInto("seasons").
		Columns("id", "name").
		Values("s1").
		ToSQL()
	if err == nil {
		t.Fatal("expected arity error")
	}
}

func TestDeleteToSQL(t *testing.T) {
	query, args, err := DeleteFrom("predictions").
		Where(Eq("fixture_id", "fx1")).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "DELETE FROM predictions WHERE fixture_id = $1"
	if query != want {
		t.Fatalf("query: got=%q want=%q", query, want)
	}
	if !reflect.DeepEqual(args, []any{"fx1"}) {
		t.Fatalf("args: got=%v", args)
	}
}

func TestDeleteWithReturningSuffix(t *testing.T) {
	query, _, err := DeleteFrom("predictions").
		Where(Eq("id", "p1")).
		Suffix("RETURNING fixture_id").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "DELETE FROM predictions WHERE id = $1 RETURNING fixture_id"
	if query != want {
		t.Fatalf("query: got=%q want=%q", query, want)
	}
}

func TestDeleteRequiresWhere(t *testing.T) {
	if _, _, err := DeleteFrom("predictions").ToSQL(); err == nil {
		t.Fatal("expected error for unbounded delete")
	}
}
