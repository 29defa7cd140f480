package group

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fkhayef/settleup/internal/database"
	"github.com/fkhayef/settleup/internal/database/dbtest"
	"github.com/fkhayef/settleup/pkg/response"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

func setup(t *testing.T) (*Service, *database.DB, *countingInvalidator) {
	t.Helper()
	db := dbtest.New(t)
	now := time.Now().UTC()
	for _, u := range []struct {
		id    int64
		name  string
		email string
	}{
		{1, "Alice", "alice@example.com"},
		{2, "Bob", "bob@example.com"},
		{3, "Carol", "carol@example.com"},
	} {
		if _, err := db.ExecContext(context.Background(),
			`INSERT INTO users (id, name, email, created_at) VALUES ($1, $2, $3, $4)`,
			u.id, u.name, u.email, now); err != nil {
			t.Fatalf("seed user %d: %v", u.id, err)
		}
	}

	inv := &countingInvalidator{}
	return NewService(NewRepository(db), inv), db, inv
}

func memberIDs(members []*Member) []int64 {
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids
}

func TestCreateGroupRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateGroupRequest
		wantErr bool
	}{
		{"valid", CreateGroupRequest{Name: "Trip"}, false},
		{"blank", CreateGroupRequest{Name: "   "}, true},
		{"too long", CreateGroupRequest{Name: strings.Repeat("g", 101)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServiceCreateSkipsUnknownMembers(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	desc := "weekend"
	group, members, err := svc.Create(ctx, &CreateGroupRequest{
		Name:        "Trip",
		Description: &desc,
		MemberIDs:   []int64{3, 1, 99, 1},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got := memberIDs(members); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("members = %v, want [1 3]", got)
	}

	got, gotMembers, err := svc.GetByIDWithMembers(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByIDWithMembers() error = %v", err)
	}
	if got.Name != "Trip" || got.Description == nil || *got.Description != "weekend" {
		t.Errorf("group = %+v", got)
	}
	if len(gotMembers) != 2 {
		t.Errorf("stored members = %v", memberIDs(gotMembers))
	}
}

func TestServiceGetMissing(t *testing.T) {
	svc, _, _ := setup(t)
	if _, _, err := svc.GetByIDWithMembers(context.Background(), 5); err != ErrGroupNotFound {
		t.Errorf("error = %v, want ErrGroupNotFound", err)
	}
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	svc.Create(ctx, &CreateGroupRequest{Name: "A", MemberIDs: []int64{1}})
	svc.Create(ctx, &CreateGroupRequest{Name: "B", MemberIDs: []int64{2, 3}})

	groups, members, total, err := svc.List(ctx, 1, 20)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(groups) != 2 {
		t.Fatalf("List() = %d groups, total %d", len(groups), total)
	}
	if len(members[groups[1].ID]) != 2 {
		t.Errorf("members of B = %v", memberIDs(members[groups[1].ID]))
	}
}

func TestServiceDeleteCascades(t *testing.T) {
	ctx := context.Background()
	svc, db, inv := setup(t)

	group, _, _ := svc.Create(ctx, &CreateGroupRequest{Name: "Trip", MemberIDs: []int64{1, 2}})
	other, _, _ := svc.Create(ctx, &CreateGroupRequest{Name: "Flat", MemberIDs: []int64{1, 2}})
	now := time.Now().UTC()

	for _, q := range []struct {
		query string
		args  []any
	}{
		{`INSERT INTO expenses (id, description, amount, split_type, created_at, group_id, paid_by_id) VALUES (1, 'taxi', 200, 'equal', $1, $2, 1)`, []any{now, group.ID}},
		{`INSERT INTO expenses (id, description, amount, split_type, created_at, group_id, paid_by_id) VALUES (2, 'rent', 200, 'equal', $1, $2, 1)`, []any{now, other.ID}},
		{`INSERT INTO expense_splits (expense_id, user_id, share, amount) VALUES (1, 1, 1, 100), (1, 2, 1, 100), (2, 2, 1, 200)`, nil},
	} {
		if _, err := db.ExecContext(ctx, q.query, q.args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if err := svc.Delete(ctx, group.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if inv.calls != 1 {
		t.Errorf("invalidations = %d, want 1", inv.calls)
	}

	var expenses, splits, memberships int
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&expenses)
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expense_splits`).Scan(&splits)
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM group_members`).Scan(&memberships)
	if expenses != 1 || splits != 1 || memberships != 2 {
		t.Errorf("after delete: expenses=%d splits=%d memberships=%d, want 1 1 2", expenses, splits, memberships)
	}

	if err := svc.Delete(ctx, group.ID); err != ErrGroupNotFound {
		t.Errorf("second Delete() error = %v, want ErrGroupNotFound", err)
	}
}

func TestServiceMembership(t *testing.T) {
	ctx := context.Background()
	svc, _, inv := setup(t)

	group, _, _ := svc.Create(ctx, &CreateGroupRequest{Name: "Trip", MemberIDs: []int64{1}})

	members, err := svc.AddMember(ctx, group.ID, 2)
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if got := memberIDs(members); len(got) != 2 {
		t.Errorf("members = %v, want [1 2]", got)
	}
	if _, err := svc.AddMember(ctx, group.ID, 2); err != nil {
		t.Errorf("re-adding a member should be a no-op, got %v", err)
	}
	if _, err := svc.AddMember(ctx, group.ID, 42); err != ErrUserNotFound {
		t.Errorf("AddMember(unknown user) error = %v, want ErrUserNotFound", err)
	}
	if _, err := svc.AddMember(ctx, 42, 1); err != ErrGroupNotFound {
		t.Errorf("AddMember(unknown group) error = %v, want ErrGroupNotFound", err)
	}

	if err := svc.RemoveMember(ctx, group.ID, 1); err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}
	if err := svc.RemoveMember(ctx, group.ID, 1); err != ErrNotMember {
		t.Errorf("RemoveMember(twice) error = %v, want ErrNotMember", err)
	}

	if inv.calls != 3 {
		t.Errorf("invalidations = %d, want 3", inv.calls)
	}
}

func TestHandler(t *testing.T) {
	svc, _, _ := setup(t)
	router := NewHandler(svc).Routes()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		check      func(t *testing.T, data json.RawMessage)
	}{
		{
			name:       "create",
			method:     http.MethodPost,
			path:       "/",
			body:       `{"name":"Trip","member_ids":[1,2,77]}`,
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, data json.RawMessage) {
				var g GroupResponse
				json.Unmarshal(data, &g)
				if g.ID != 1 || len(g.Members) != 2 {
					t.Errorf("created = %+v", g)
				}
			},
		},
		{name: "create without name", method: http.MethodPost, path: "/", body: `{"member_ids":[1]}`, wantStatus: http.StatusBadRequest},
		{name: "create malformed", method: http.MethodPost, path: "/", body: `[`, wantStatus: http.StatusBadRequest},
		{name: "get", method: http.MethodGet, path: "/1", wantStatus: http.StatusOK},
		{name: "get missing", method: http.MethodGet, path: "/9", wantStatus: http.StatusNotFound},
		{name: "get bad id", method: http.MethodGet, path: "/x", wantStatus: http.StatusBadRequest},
		{
			name:       "list",
			method:     http.MethodGet,
			path:       "/",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, data json.RawMessage) {
				var gs []GroupResponse
				json.Unmarshal(data, &gs)
				if len(gs) != 1 || len(gs[0].Members) != 2 {
					t.Errorf("list = %+v", gs)
				}
			},
		},
		{name: "add member", method: http.MethodPost, path: "/1/members", body: `{"user_id":3}`, wantStatus: http.StatusOK},
		{name: "add unknown member", method: http.MethodPost, path: "/1/members", body: `{"user_id":30}`, wantStatus: http.StatusNotFound},
		{name: "add member without user", method: http.MethodPost, path: "/1/members", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "get members", method: http.MethodGet, path: "/1/members", wantStatus: http.StatusOK},
		{name: "remove member", method: http.MethodDelete, path: "/1/members/3", wantStatus: http.StatusOK},
		{name: "remove non member", method: http.MethodDelete, path: "/1/members/3", wantStatus: http.StatusNotFound},
		{name: "delete", method: http.MethodDelete, path: "/1", wantStatus: http.StatusOK},
		{name: "delete missing", method: http.MethodDelete, path: "/1", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var body struct {
				Success bool               `json:"success"`
				Data    json.RawMessage    `json:"data"`
				Error   *response.APIError `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Success != (tt.wantStatus < 300) {
				t.Errorf("success = %v for status %d", body.Success, tt.wantStatus)
			}
			if tt.check != nil {
				tt.check(t, body.Data)
			}
		})
	}
}
