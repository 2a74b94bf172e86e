package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/api/middleware"
	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

type stubProductService struct {
	products    map[string]*domain.Product
	lastCreate  ports.CreateProductInput
	lastActor   string
	replay      bool
	internalErr error
}

func newStubProductService() *stubProductService {
	return &stubProductService{products: map[string]*domain.Product{
		"1": {ID: "1", Name: "Product 1", Description: "Description 1", Price: 10},
	}}
}

func (s *stubProductService) ListProducts(context.Context) ([]*domain.Product, error) {
	if s.internalErr != nil {
		return nil, s.internalErr
	}
	var out []*domain.Product
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProductService) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (s *stubProductService) CreateProduct(_ context.Context, input ports.CreateProductInput) (*ports.CreateProductResult, error) {
	s.lastCreate = input
	p := &domain.Product{ID: "2", Name: input.Name, Description: input.Description, Price: input.Price}
	return &ports.CreateProductResult{Product: p, Replayed: s.replay}, nil
}

func (s *stubProductService) UpdateProduct(_ context.Context, id, actor string, input ports.ProductInput) (*domain.Product, error) {
	s.lastActor = actor
	if _, ok := s.products[id]; !ok {
		return nil, domain.ErrProductNotFound
	}
	return &domain.Product{ID: id, Name: input.Name, Description: input.Description, Price: input.Price}, nil
}

func (s *stubProductService) DeleteProduct(_ context.Context, id, actor string) error {
	s.lastActor = actor
	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

type fixedVerifier struct {
	identity domain.Identity
}

func (v fixedVerifier) Verify(string) (domain.Identity, error) {
	return v.identity, nil
}

// asAdmin runs h behind the Auth gate with an ADMIN identity.
func asAdmin(c echo.Context, h echo.HandlerFunc) error {
	c.Request().Header.Set(echo.HeaderAuthorization, "token")
	gate := middleware.Auth(fixedVerifier{identity: domain.Identity{Username: "root", Role: domain.RoleAdmin}}, middleware.AuthConfig{})
	return gate(h)(c)
}

func TestProductHandler_List(t *testing.T) {
	handler := NewProductHandler(newStubProductService())

	c, rec := newJSONContext(http.MethodGet, "/products", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["name"] != "Product 1" {
		t.Fatalf("unexpected list: %+v", resp)
	}
}

func TestProductHandler_List_EmptyIsArray(t *testing.T) {
	svc := newStubProductService()
	svc.products = map[string]*domain.Product{}
	handler := NewProductHandler(svc)

	c, rec := newJSONContext(http.MethodGet, "/products", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestProductHandler_Get(t *testing.T) {
	handler := NewProductHandler(newStubProductService())

	c, rec := newJSONContext(http.MethodGet, "/products/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newJSONContext(http.MethodGet, "/products/9", "")
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := handler.Get(c); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductHandler_Create(t *testing.T) {
	svc := newStubProductService()
	handler := NewProductHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/products", `{"name":"Lamp","description":"Desk lamp","price":25.5}`)
	c.Request().Header.Set("Idempotency-Key", "abc")
	if err := asAdmin(c, handler.Create); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.lastCreate.Actor != "root" || svc.lastCreate.IdempotencyKey != "abc" || svc.lastCreate.Price != 25.5 {
		t.Fatalf("unexpected create input: %+v", svc.lastCreate)
	}
	if rec.Header().Get("Idempotent-Replayed") != "" {
		t.Fatalf("fresh create must not be flagged as replay")
	}
}

func TestProductHandler_Create_Replay(t *testing.T) {
	svc := newStubProductService()
	svc.replay = true
	handler := NewProductHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/products", `{"name":"Lamp","description":"Desk lamp","price":25.5}`)
	if err := asAdmin(c, handler.Create); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay header")
	}
}

func TestProductHandler_Create_Validation(t *testing.T) {
	handler := NewProductHandler(newStubProductService())

	c, _ := newJSONContext(http.MethodPost, "/products", `{"name":"","price":-1}`)
	var verr *domain.ValidationError
	if err := asAdmin(c, handler.Create); !errors.As(err, &verr) || len(verr.Violations) != 3 {
		t.Fatalf("expected three violations, got %v", err)
	}
}

func TestProductHandler_UpdateAndDelete(t *testing.T) {
	svc := newStubProductService()
	handler := NewProductHandler(svc)

	c, rec := newJSONContext(http.MethodPut, "/products/1", `{"name":"Renamed","description":"d","price":3}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := asAdmin(c, handler.Update); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if rec.Body.String() != "{\"message\":\"Product updated successfully\"}\n" {
		t.Fatalf("unexpected update body: %s", rec.Body.String())
	}
	if svc.lastActor != "root" {
		t.Fatalf("expected actor root, got %q", svc.lastActor)
	}

	c, rec = newJSONContext(http.MethodDelete, "/products/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := asAdmin(c, handler.Delete); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if rec.Body.String() != "{\"message\":\"Product deleted successfully\"}\n" {
		t.Fatalf("unexpected delete body: %s", rec.Body.String())
	}

	c, _ = newJSONContext(http.MethodDelete, "/products/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := asAdmin(c, handler.Delete); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductHandler_MutationWithoutIdentity(t *testing.T) {
	handler := NewProductHandler(newStubProductService())

	c, _ := newJSONContext(http.MethodDelete, "/products/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	expectHTTPError(t, handler.Delete(c), http.StatusUnauthorized)
}

func TestProductHandler_ActorFromRequestContext(t *testing.T) {
	svc := newStubProductService()
	handler := NewProductHandler(svc)

	c, _ := newJSONContext(http.MethodDelete, "/products/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	identity := domain.Identity{Username: "ops", Role: domain.RoleAdmin}
	c.SetRequest(c.Request().WithContext(middleware.WithIdentity(c.Request().Context(), identity)))

	if err := handler.Delete(c); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if svc.lastActor != "ops" {
		t.Fatalf("expected actor ops, got %q", svc.lastActor)
	}
}
