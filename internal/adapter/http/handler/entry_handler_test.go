package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vfarias/financeiro/internal/adapter/http/dto"
	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/usecase"
)

type entryServiceStub struct {
	createFn          func(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error)
	getFn             func(ctx context.Context, id string) (*domain.Entry, error)
	listFn            func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error)
	listSettlementsFn func(ctx context.Context, entryID string) ([]*domain.SettlementEvent, error)
	updateFn          func(ctx context.Context, id string, input usecase.UpdateEntryInput) (*domain.Entry, error)
	deleteFn          func(ctx context.Context, id string, cascade bool) error
	cloneFn           func(ctx context.Context, id string) (*domain.Entry, error)
}

func (s *entryServiceStub) CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error) {
	return s.createFn(ctx, input)
}

func (s *entryServiceStub) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return s.getFn(ctx, id)
}

func (s *entryServiceStub) ListEntries(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	return s.listFn(ctx, filter)
}

func (s *entryServiceStub) ListSettlements(ctx context.Context, entryID string) ([]*domain.SettlementEvent, error) {
	return s.listSettlementsFn(ctx, entryID)
}

func (s *entryServiceStub) UpdateEntry(ctx context.Context, id string, input usecase.UpdateEntryInput) (*domain.Entry, error) {
	return s.updateFn(ctx, id, input)
}

func (s *entryServiceStub) DeleteEntry(ctx context.Context, id string, cascade bool) error {
	return s.deleteFn(ctx, id, cascade)
}

func (s *entryServiceStub) CloneEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return s.cloneFn(ctx, id)
}

func testEntry() *domain.Entry {
	return &domain.Entry{
		ID:            "e-1",
		Description:   "Aluguel",
		Category:      "Casa",
		DueDate:       time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.RequireFromString("-1500.00"),
		SettledAmount: decimal.Zero,
	}
}

func TestEntryHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateEntryInput
	handler := NewEntryHandler(&entryServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error) {
			captured = input
			return testEntry(), nil
		},
	})

	body, _ := json.Marshal(dto.CreateEntryRequest{
		Description: "Aluguel",
		Amount:      decimal.RequireFromString("-1500.00"),
		DueDate:     "2026-09-05",
		Category:    "Casa",
	})

	req := httptest.NewRequest(http.MethodPost, "/entries", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Description != "Aluguel" || captured.Category != "Casa" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "e-1" {
		t.Fatalf("expected entry ID e-1, got %s", resp.ID)
	}
	if resp.Status != string(domain.StatusPending) {
		t.Fatalf("expected PENDING status, got %s", resp.Status)
	}
}

func TestEntryHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error) {
			t.Fatal("CreateEntry should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/entries", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_Create_InvalidDate(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error) {
			t.Fatal("CreateEntry should not be called for invalid due date")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.CreateEntryRequest{
		Description: "Aluguel",
		Amount:      decimal.RequireFromString("-1500.00"),
		DueDate:     "05/09/2026",
	})

	req := httptest.NewRequest(http.MethodPost, "/entries", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_Create_DomainError(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error) {
			return nil, domain.ErrInvalidCategory
		},
	})

	body, _ := json.Marshal(dto.CreateEntryRequest{
		Description: "Aluguel",
		Amount:      decimal.RequireFromString("-1500.00"),
		DueDate:     "2026-09-05",
		Category:    "Inexistente",
	})

	req := httptest.NewRequest(http.MethodPost, "/entries", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_Get(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Entry, error) {
			if id != "e-1" {
				t.Fatalf("expected id e-1, got %s", id)
			}
			return testEntry(), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/entries/e-1", nil)
	req = setChiURLParam(req, "id", "e-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEntryHandler_Get_NotFound(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Entry, error) {
			return nil, domain.ErrEntryNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/entries/e-404", nil)
	req = setChiURLParam(req, "id", "e-404")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEntryHandler_List(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
			if filter.Limit != 5 || filter.Offset != 2 {
				t.Fatalf("expected limit=5 offset=2, got %+v", filter)
			}
			if filter.Category != "Casa" {
				t.Fatalf("expected category filter, got %+v", filter)
			}
			return []*domain.Entry{testEntry()}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/entries?limit=5&offset=2&category=Casa", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListEntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(resp.Entries))
	}
}

func TestEntryHandler_List_InvalidStatus(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
			t.Fatal("ListEntries should not be called for an invalid status")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/entries?status=WEIRD", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_ListSettlements(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		listSettlementsFn: func(ctx context.Context, entryID string) ([]*domain.SettlementEvent, error) {
			return []*domain.SettlementEvent{
				{ID: "s-1", EntryID: entryID, Amount: decimal.RequireFromString("-500.00")},
				{ID: "s-2", EntryID: entryID, Amount: decimal.RequireFromString("-250.00")},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/entries/e-1/settlements", nil)
	req = setChiURLParam(req, "id", "e-1")
	rec := httptest.NewRecorder()

	handler.ListSettlements(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []*dto.SettlementEventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 events, got %d", len(resp))
	}
}

func TestEntryHandler_Update(t *testing.T) {
	newDesc := "Aluguel setembro"
	handler := NewEntryHandler(&entryServiceStub{
		updateFn: func(ctx context.Context, id string, input usecase.UpdateEntryInput) (*domain.Entry, error) {
			if input.Description == nil || *input.Description != newDesc {
				t.Fatalf("expected description patch, got %+v", input)
			}
			entry := testEntry()
			entry.Description = newDesc
			return entry, nil
		},
	})

	body, _ := json.Marshal(dto.UpdateEntryRequest{Description: &newDesc})
	req := httptest.NewRequest(http.MethodPatch, "/entries/e-1", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "e-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestEntryHandler_Update_OverSettlement(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		updateFn: func(ctx context.Context, id string, input usecase.UpdateEntryInput) (*domain.Entry, error) {
			return nil, domain.ErrOverSettlement
		},
	})

	amount := decimal.RequireFromString("-100.00")
	body, _ := json.Marshal(dto.UpdateEntryRequest{Amount: &amount})
	req := httptest.NewRequest(http.MethodPatch, "/entries/e-1", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "e-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestEntryHandler_Delete(t *testing.T) {
	var gotCascade bool
	handler := NewEntryHandler(&entryServiceStub{
		deleteFn: func(ctx context.Context, id string, cascade bool) error {
			gotCascade = cascade
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/entries/e-1?cascade=true", nil)
	req = setChiURLParam(req, "id", "e-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !gotCascade {
		t.Fatalf("expected cascade flag to propagate")
	}
}

func TestEntryHandler_Delete_Conflict(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		deleteFn: func(ctx context.Context, id string, cascade bool) error {
			return domain.ErrSettlementConflict
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/entries/e-1", nil)
	req = setChiURLParam(req, "id", "e-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestEntryHandler_Clone(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		cloneFn: func(ctx context.Context, id string) (*domain.Entry, error) {
			clone := testEntry()
			clone.ID = "e-2"
			return clone, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/entries/e-1/clone", nil)
	req = setChiURLParam(req, "id", "e-1")
	rec := httptest.NewRecorder()

	handler.Clone(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "e-2" {
		t.Fatalf("expected clone ID e-2, got %s", resp.ID)
	}
}

func TestEntryHandler_ServiceError(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
			return nil, errors.New("db error")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/entries", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
