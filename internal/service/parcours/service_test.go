package parcours

import (
	"context"
	"errors"
	"testing"

	"github.com/parcour-labs/parcour-go/internal/domain"
	"github.com/parcour-labs/parcour-go/internal/repo"
)

type fakeParcourRepo struct {
	parcours map[string]domain.Parcour
}

func newFakeParcourRepo() *fakeParcourRepo {
	return &fakeParcourRepo{parcours: map[string]domain.Parcour{}}
}

func (f *fakeParcourRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := f.parcours[id]
	return ok, nil
}

func (f *fakeParcourRepo) GetAll(ctx context.Context) ([]domain.Parcour, error) {
	out := make([]domain.Parcour, 0, len(f.parcours))
	for _, p := range f.parcours {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeParcourRepo) GetByID(ctx context.Context, id string) (domain.Parcour, error) {
	p, ok := f.parcours[id]
	if !ok {
		return domain.Parcour{}, repo.ErrNotFound
	}
	return p, nil
}

func (f *fakeParcourRepo) Add(ctx context.Context, parcour domain.Parcour) (int64, error) {
	if _, exists := f.parcours[parcour.ID]; exists {
		return 0, repo.ErrConflict
	}
	f.parcours[parcour.ID] = parcour
	return 1, nil
}

func (f *fakeParcourRepo) Update(ctx context.Context, parcour domain.Parcour) (int64, error) {
	current, ok := f.parcours[parcour.ID]
	if !ok {
		return 0, nil
	}
	current.Name = parcour.Name
	current.Data = parcour.Data
	f.parcours[parcour.ID] = current
	return 1, nil
}

func (f *fakeParcourRepo) RemoveByID(ctx context.Context, id string) error {
	if _, ok := f.parcours[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.parcours, id)
	return nil
}

func TestCreate_RequiresAuthenticatedUser(t *testing.T) {
	service := New(newFakeParcourRepo())

	_, err := service.Create(context.Background(), "", &Payload{Name: "morning loop"})
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Status != 401 {
		t.Fatalf("err=%v, want 401 domain error", err)
	}
}

func TestCreate_RequiresName(t *testing.T) {
	service := New(newFakeParcourRepo())

	_, err := service.Create(context.Background(), "user-1", &Payload{Name: "  "})
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Code != "name_required" {
		t.Fatalf("err=%v, want name_required", err)
	}
}

func TestCreate_GeneratesID(t *testing.T) {
	parcourRepo := newFakeParcourRepo()
	service := New(parcourRepo)

	created, err := service.Create(context.Background(), "user-1", &Payload{Name: "morning loop"})
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.UserID != "user-1" {
		t.Fatalf("UserID=%q, want user-1", created.UserID)
	}
}

func TestCreate_KeepsSuppliedID(t *testing.T) {
	service := New(newFakeParcourRepo())

	created, err := service.Create(context.Background(), "user-1", &Payload{ID: "p1", Name: "morning loop"})
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if created.ID != "p1" {
		t.Fatalf("ID=%q, want p1", created.ID)
	}
}

func TestUpdate_PathBodyMismatch(t *testing.T) {
	parcourRepo := newFakeParcourRepo()
	parcourRepo.parcours["p1"] = domain.Parcour{ID: "p1", Name: "old"}
	service := New(parcourRepo)

	_, err := service.Update(context.Background(), "p1", &Payload{ID: "p2", Name: "new"})
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Code != "parcour_mismatch" {
		t.Fatalf("err=%v, want parcour_mismatch", err)
	}
}

func TestUpdate_ReplacesNameAndData(t *testing.T) {
	parcourRepo := newFakeParcourRepo()
	parcourRepo.parcours["p1"] = domain.Parcour{ID: "p1", Name: "old", UserID: "user-1"}
	service := New(parcourRepo)

	updated, err := service.Update(context.Background(), "p1", &Payload{Name: "new", Data: []byte(`{"length_km":5}`)})
	if err != nil {
		t.Fatalf("Update() err=%v", err)
	}
	if updated.Name != "new" {
		t.Fatalf("Name=%q, want new", updated.Name)
	}
	if updated.UserID != "user-1" {
		t.Fatalf("UserID=%q, owner must survive update", updated.UserID)
	}
}

func TestUpdate_MissingParcour(t *testing.T) {
	service := New(newFakeParcourRepo())

	_, err := service.Update(context.Background(), "missing", &Payload{Name: "new"})
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Status != 404 {
		t.Fatalf("err=%v, want 404 domain error", err)
	}
}

func TestDelete_MissingParcour(t *testing.T) {
	service := New(newFakeParcourRepo())

	err := service.Delete(context.Background(), "missing")
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Status != 404 {
		t.Fatalf("err=%v, want 404 domain error", err)
	}
}

func TestDelete_RemovesParcour(t *testing.T) {
	parcourRepo := newFakeParcourRepo()
	parcourRepo.parcours["p1"] = domain.Parcour{ID: "p1", Name: "morning loop"}
	service := New(parcourRepo)

	if err := service.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("Delete() err=%v", err)
	}
	if _, ok := parcourRepo.parcours["p1"]; ok {
		t.Fatalf("parcour still stored after delete")
	}
}
