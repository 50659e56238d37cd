package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestQuestionTypeCacheLoadsOnce(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows([]string{"text", "type"}).
		AddRow("Shift Time?", "dropdown").
		AddRow("Inspection Date", "date")
	mock.ExpectQuery("SELECT .* FROM `questions`").WillReturnRows(rows)

	cache := &QuestionTypeCache{}
	types, err := cache.Types(context.Background(), db)
	if err != nil {
		t.Fatalf("Types: %v", err)
	}
	if types["Shift Time?"] != "dropdown" || types["Inspection Date"] != "date" {
		t.Fatalf("got %v", types)
	}

	// second call must not hit the database again
	again, err := cache.Types(context.Background(), db)
	if err != nil {
		t.Fatalf("Types: %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("got %v", again)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected extra queries: %v", err)
	}
}

func TestQuestionTypeCacheCachesError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `questions`").WillReturnError(errors.New("connection reset"))

	cache := &QuestionTypeCache{}
	if _, err := cache.Types(context.Background(), db); err == nil {
		t.Fatal("expected error")
	}
	// the failure is remembered, not retried per entity
	if _, err := cache.Types(context.Background(), db); err == nil {
		t.Fatal("expected cached error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected extra queries: %v", err)
	}
}

func TestEnrichAssignmentsBatchedLookup(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "label"}).AddRow(7, "tech1"))

	records := []Record{
		{"entity_name": "users", "entity_id": 7, "assigned_entity_identifier": nil},
		{"entity_name": "users", "entity_id": 7, "assigned_entity_identifier": nil}, // duplicate id, one query
		{"entity_name": "users", "entity_id": 8, "assigned_entity_identifier": nil},
	}
	if err := enrichAssignments(context.Background(), db, records); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if records[0]["assigned_entity_identifier"] != "tech1" {
		t.Fatalf("got %v", records[0]["assigned_entity_identifier"])
	}
	// unknown id keeps the placeholder
	if records[2]["assigned_entity_identifier"] != nil {
		t.Fatalf("got %v", records[2]["assigned_entity_identifier"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected one batched lookup: %v", err)
	}
}

func TestEnrichAssignmentsSkipsUnknownKinds(t *testing.T) {
	db, mock := newMockDB(t)
	records := []Record{
		{"entity_name": "widgets", "entity_id": 1, "assigned_entity_identifier": nil},
	}
	if err := enrichAssignments(context.Background(), db, records); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unknown kinds must not query: %v", err)
	}
}

func TestFetchEntityDataAppliesScopes(t *testing.T) {
	db, mock := newMockDB(t)
	desc, err := Describe("users")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}

	rows := sqlmock.NewRows([]string{"id", "username"}).AddRow(7, "tech1")
	mock.ExpectQuery("SELECT .* FROM `users` WHERE `users`.`is_deleted` = .+ AND `users`.`environment_id` = .+").
		WillReturnRows(rows)

	user := testUser("Technician", false, 3)
	dest, err := fetchEntityData(context.Background(), db, desc, nil, nil, []string{"id", "username"}, user, false)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if dest == nil {
		t.Fatal("expected a typed slice")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("scoped query not issued: %v", err)
	}
}

func TestAsInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{7, 7, true},
		{int64(8), 8, true},
		{float64(9), 9, true},
		{"10", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := asInt(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("asInt(%v) = %d %v", tc.in, got, ok)
		}
	}
}
