package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/callsnap/internal/errors"
)

func TestList_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	first := createTestMeeting(t, env, "First")
	second := createTestMeeting(t, env, "Second")
	third := createTestMeeting(t, env, "Third")

	output, err := List(context.Background(), env, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(output.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(output.Items))
	}
	want := []string{third.ID, second.ID, first.ID}
	for i, id := range want {
		if output.Items[i].ID != id {
			t.Errorf("Items[%d].ID = %s, want %s", i, output.Items[i].ID, id)
		}
	}
	if output.Pagination.Total != 3 || output.Pagination.HasMore {
		t.Errorf("Pagination = %+v", output.Pagination)
	}
	if output.Pagination.Limit != DefaultListLimit {
		t.Errorf("Limit = %d, want %d", output.Pagination.Limit, DefaultListLimit)
	}
	if output.Sort != "created_at_desc" {
		t.Errorf("Sort = %q, want created_at_desc", output.Sort)
	}
}

func TestList_Pagination(t *testing.T) {
	env := newTestEnv(t)
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		createTestMeeting(t, env, title)
	}

	output, err := List(context.Background(), env, ListInput{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(output.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(output.Items))
	}
	if output.Items[0].Title != "d" || output.Items[1].Title != "c" {
		t.Errorf("titles = %s,%s, want d,c", output.Items[0].Title, output.Items[1].Title)
	}
	if !output.Pagination.HasMore {
		t.Error("HasMore = false, want true")
	}

	output, err = List(context.Background(), env, ListInput{Limit: 1000, Offset: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if output.Pagination.Limit != MaxListLimit {
		t.Errorf("Limit = %d, want %d", output.Pagination.Limit, MaxListLimit)
	}
	if len(output.Items) != 0 || output.Items == nil {
		t.Errorf("Items = %v, want empty non-nil slice", output.Items)
	}
}

func TestList_StatusFilter(t *testing.T) {
	env := newTestEnv(t)
	createTestMeeting(t, env, "Pending")
	processed := processedTestMeeting(t, env, "Done")

	output, err := List(context.Background(), env, ListInput{Status: "Processed"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(output.Items) != 1 || output.Items[0].ID != processed.ID {
		t.Errorf("Items = %+v, want only the processed meeting", output.Items)
	}
	if output.Items[0].SegmentCount == 0 {
		t.Error("SegmentCount should be reported")
	}

	if _, err := List(context.Background(), env, ListInput{Status: "archived"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
