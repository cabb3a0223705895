package drafts

import (
	"context"
	"errors"
	"testing"

	"github.com/caregrid/admin-api/pkg/editsession"
)

func testResource(store map[string]editsession.Record) Resource {
	return Resource{
		Load: func(ctx context.Context, id string) (editsession.Record, error) {
			rec, ok := store[id]
			if !ok {
				return nil, errors.New("record not found")
			}
			return rec, nil
		},
		Submit: func(ctx context.Context, draft editsession.Record) (editsession.Record, error) {
			return draft, nil
		},
	}
}

func TestManager_OpenUpdateSubmit(t *testing.T) {
	store := map[string]editsession.Record{
		"d1": {"name": "Dr. Mehta", "specialization": "Cardiology"},
	}
	mgr := NewManager()
	mgr.Register("doctors", testResource(store))

	draft, err := mgr.Open(context.Background(), "doctors", "d1")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if draft["name"] != "Dr. Mehta" {
		t.Errorf("expected draft seeded from record, got %v", draft["name"])
	}

	draft, err = mgr.Update("doctors", "d1", editsession.Record{"specialization": "Neurology"})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if draft["specialization"] != "Neurology" {
		t.Errorf("expected staged change, got %v", draft["specialization"])
	}

	// The stored record is untouched until submit.
	if store["d1"]["specialization"] != "Cardiology" {
		t.Error("staging a field should not modify the loaded record")
	}

	saved, err := mgr.Submit(context.Background(), "doctors", "d1")
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if saved["specialization"] != "Neurology" {
		t.Errorf("expected submitted record to carry staged change, got %v", saved["specialization"])
	}

	// The session is gone after a successful submit.
	if _, err := mgr.Draft("doctors", "d1"); !errors.Is(err, ErrNoDraft) {
		t.Errorf("expected ErrNoDraft after submit, got %v", err)
	}
}

func TestManager_OpenTwiceReturnsSameDraft(t *testing.T) {
	store := map[string]editsession.Record{
		"s1": {"name": "Asha"},
	}
	mgr := NewManager()
	mgr.Register("staff", testResource(store))

	if _, err := mgr.Open(context.Background(), "staff", "s1"); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := mgr.Update("staff", "s1", editsession.Record{"name": "Asha K"}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	draft, err := mgr.Open(context.Background(), "staff", "s1")
	if err != nil {
		t.Fatalf("second Open() error: %v", err)
	}
	if draft["name"] != "Asha K" {
		t.Errorf("expected second open to return existing draft, got %v", draft["name"])
	}
}

func TestManager_UnknownResource(t *testing.T) {
	mgr := NewManager()
	if _, err := mgr.Open(context.Background(), "bookings", "b1"); !errors.Is(err, ErrUnknownResource) {
		t.Errorf("expected ErrUnknownResource, got %v", err)
	}
	if _, err := mgr.Draft("bookings", "b1"); !errors.Is(err, ErrUnknownResource) {
		t.Errorf("expected ErrUnknownResource, got %v", err)
	}
}

func TestManager_CancelDiscardsDraft(t *testing.T) {
	store := map[string]editsession.Record{
		"e1": {"name": "Ravi", "department": "Accounts"},
	}
	mgr := NewManager()
	mgr.Register("employees", testResource(store))

	if _, err := mgr.Open(context.Background(), "employees", "e1"); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := mgr.Update("employees", "e1", editsession.Record{"department": "HR"}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if err := mgr.Cancel("employees", "e1"); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}

	if _, err := mgr.Draft("employees", "e1"); !errors.Is(err, ErrNoDraft) {
		t.Errorf("expected ErrNoDraft after cancel, got %v", err)
	}
	if store["e1"]["department"] != "Accounts" {
		t.Error("cancel should leave the stored record untouched")
	}
}

func TestManager_SubmitFailureKeepsDraft(t *testing.T) {
	store := map[string]editsession.Record{
		"x1": {"name": "Chest X-Ray"},
	}
	res := testResource(store)
	res.Submit = func(ctx context.Context, draft editsession.Record) (editsession.Record, error) {
		return nil, errors.New("save failed")
	}
	mgr := NewManager()
	mgr.Register("xrays", res)

	if _, err := mgr.Open(context.Background(), "xrays", "x1"); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := mgr.Update("xrays", "x1", editsession.Record{"name": "Spine X-Ray"}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	if _, err := mgr.Submit(context.Background(), "xrays", "x1"); err == nil {
		t.Fatal("expected submit error")
	}

	// The draft survives a failed submit so the caller can retry.
	draft, err := mgr.Draft("xrays", "x1")
	if err != nil {
		t.Fatalf("Draft() after failed submit: %v", err)
	}
	if draft["name"] != "Spine X-Ray" {
		t.Errorf("expected staged change retained, got %v", draft["name"])
	}
}
