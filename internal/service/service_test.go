package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/splitpot/splitpot/internal/metrics"
	"github.com/splitpot/splitpot/internal/middleware"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
	"github.com/splitpot/splitpot/internal/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitpot-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// newTestServices wires every service onto one shared store, with a capturing
// event publisher standing in for the AMQP broker.
func newTestServices(t *testing.T) (*GroupService, *ExpenseService, *SettlementService, *capturePublisher, storage.Store) {
	t.Helper()

	store := newTestStore(t)
	m := metrics.New()
	publisher := &capturePublisher{}

	groups := NewGroupService(store, m)
	expenses := NewExpenseService(store, publisher, m)
	settlements := NewSettlementService(store, publisher, m)
	return groups, expenses, settlements, publisher, store
}

// authedCtx returns a context carrying the given user identity, the way the
// auth middleware would set it.
func authedCtx(userID string) context.Context {
	return context.WithValue(context.Background(), middleware.UserIDKey, userID)
}

func createTestAccount(t *testing.T, store storage.Store, email string) *models.User {
	t.Helper()

	user := &models.User{Email: email, Name: "Test User", PasswordHash: "not-a-real-hash"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func createTestGroup(t *testing.T, svc *GroupService, ctx context.Context, names ...string) *models.Group {
	t.Helper()

	members := make([]MemberInput, len(names))
	for i, name := range names {
		members[i] = MemberInput{Name: name}
	}
	group, err := svc.CreateGroup(ctx, "Ski Trip", "EUR", members)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

// wantValidationError asserts that err is a validation error on the field.
func wantValidationError(t *testing.T, err error, field string) {
	t.Helper()

	var validation *ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("got error %v, want validation error on %q", err, field)
	}
	if validation.Field != field {
		t.Errorf("validation field = %q, want %q", validation.Field, field)
	}
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	fail        bool
	expenses    []*models.Expense
	settlements []*models.Settlement
}

func (p *capturePublisher) PublishExpenseRecorded(_ context.Context, expense *models.Expense) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.expenses = append(p.expenses, expense)
	return nil
}

func (p *capturePublisher) PublishSettlementRecorded(_ context.Context, settlement *models.Settlement) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.settlements = append(p.settlements, settlement)
	return nil
}
