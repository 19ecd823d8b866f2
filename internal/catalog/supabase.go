package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fairyhunter13/warung-price-bot/internal/model"
	"github.com/fairyhunter13/warung-price-bot/internal/obs"
)

// Supabase is a Gateway backed by the Supabase PostgREST API. Products live
// in the products table; audit records are appended to product_audit_log.
type Supabase struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewSupabase builds a Supabase gateway. The timeout bounds every request so
// a stuck catalog call cannot stall message handling.
func NewSupabase(baseURL, apiKey string, timeout time.Duration) *Supabase {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Supabase{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *Supabase) do(ctx context.Context, op, method, path string, query url.Values, body any) ([]byte, int, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, &TransportError{Op: op, Err: err}
		}
		rd = bytes.NewReader(data)
	}
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, 0, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode >= 400 {
		return data, resp.StatusCode, &TransportError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, data)}
	}
	return data, resp.StatusCode, nil
}

func (s *Supabase) getProducts(ctx context.Context, op string, query url.Values) ([]model.Product, error) {
	data, _, err := s.do(ctx, op, http.MethodGet, "/rest/v1/products", query, nil)
	if err != nil {
		return nil, err
	}
	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return products, nil
}

// FindByName returns the first case-insensitive partial match, or ErrNotFound.
func (s *Supabase) FindByName(ctx context.Context, name string) (*model.Product, error) {
	q := url.Values{}
	q.Set("name", "ilike.*"+name+"*")
	q.Set("limit", "1")
	products, err := s.getProducts(ctx, "find_by_name", q)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}
	return &products[0], nil
}

// Search returns all products whose names contain the query.
func (s *Supabase) Search(ctx context.Context, query string) ([]model.Product, error) {
	q := url.Values{}
	q.Set("name", "ilike.*"+query+"*")
	return s.getProducts(ctx, "search", q)
}

// UpsertByName patches the matching product or inserts a new row, then
// appends the audit record.
func (s *Supabase) UpsertByName(ctx context.Context, name string, price int64, unit, requestedBy string) (*model.Product, error) {
	existing, err := s.FindByName(ctx, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		q := url.Values{}
		q.Set("id", "eq."+strconv.FormatInt(existing.ID, 10))
		body := map[string]any{"price": price, "unit": unitOrNull(unit)}
		data, _, err := s.do(ctx, "upsert_by_name", http.MethodPatch, "/rest/v1/products", q, body)
		if err != nil {
			return nil, err
		}
		updated, err := firstProduct("upsert_by_name", data)
		if err != nil {
			return nil, err
		}
		s.appendAudit(ctx, model.AuditEntry{
			ProductID:  existing.ID,
			ActionType: AuditUpdate,
			Details: map[string]any{
				"old_price": existing.Price,
				"new_price": price,
				"old_unit":  existing.Unit,
				"new_unit":  unit,
			},
			RequestedBy: requestedBy,
		})
		return updated, nil
	}

	body := map[string]any{"name": name, "price": price, "unit": unitOrNull(unit)}
	data, _, err := s.do(ctx, "upsert_by_name", http.MethodPost, "/rest/v1/products", nil, body)
	if err != nil {
		return nil, err
	}
	created, err := firstProduct("upsert_by_name", data)
	if err != nil {
		return nil, err
	}
	s.appendAudit(ctx, model.AuditEntry{
		ProductID:  created.ID,
		ActionType: AuditCreate,
		Details: map[string]any{
			"name":  name,
			"price": price,
			"unit":  unit,
		},
		RequestedBy: requestedBy,
	})
	return created, nil
}

// UpdateByID patches an existing product, or ErrNotFound.
func (s *Supabase) UpdateByID(ctx context.Context, id, price int64, unit, requestedBy string) (*model.Product, error) {
	existing, err := s.findByID(ctx, "update_by_id", id)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	body := map[string]any{"price": price, "unit": unitOrNull(unit)}
	data, _, err := s.do(ctx, "update_by_id", http.MethodPatch, "/rest/v1/products", q, body)
	if err != nil {
		return nil, err
	}
	updated, err := firstProduct("update_by_id", data)
	if err != nil {
		return nil, err
	}
	s.appendAudit(ctx, model.AuditEntry{
		ProductID:  id,
		ActionType: AuditUpdateByID,
		Details: map[string]any{
			"old_price": existing.Price,
			"new_price": price,
			"old_unit":  existing.Unit,
			"new_unit":  unit,
		},
		RequestedBy: requestedBy,
	})
	return updated, nil
}

// DeleteByID removes a product by id, or ErrNotFound.
func (s *Supabase) DeleteByID(ctx context.Context, id int64, requestedBy string) error {
	existing, err := s.findByID(ctx, "delete_by_id", id)
	if err != nil {
		return err
	}

	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	if _, _, err := s.do(ctx, "delete_by_id", http.MethodDelete, "/rest/v1/products", q, nil); err != nil {
		return err
	}
	s.appendAudit(ctx, model.AuditEntry{
		ProductID:  id,
		ActionType: AuditDeleteByID,
		Details: map[string]any{
			"name":  existing.Name,
			"price": existing.Price,
			"unit":  existing.Unit,
		},
		RequestedBy: requestedBy,
	})
	return nil
}

// DeleteByName removes the first product matching the name, or ErrNotFound.
func (s *Supabase) DeleteByName(ctx context.Context, name, requestedBy string) error {
	existing, err := s.FindByName(ctx, name)
	if err != nil {
		return err
	}

	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(existing.ID, 10))
	if _, _, err := s.do(ctx, "delete_by_name", http.MethodDelete, "/rest/v1/products", q, nil); err != nil {
		return err
	}
	s.appendAudit(ctx, model.AuditEntry{
		ProductID:  existing.ID,
		ActionType: AuditDelete,
		Details: map[string]any{
			"name":  existing.Name,
			"price": existing.Price,
			"unit":  existing.Unit,
		},
		RequestedBy: requestedBy,
	})
	return nil
}

func (s *Supabase) findByID(ctx context.Context, op string, id int64) (*model.Product, error) {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	q.Set("limit", "1")
	products, err := s.getProducts(ctx, op, q)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}
	return &products[0], nil
}

// appendAudit posts one audit row. Failures are logged and swallowed: the
// mutation result, not the audit append, determines the reply to the user.
func (s *Supabase) appendAudit(ctx context.Context, entry model.AuditEntry) {
	if _, _, err := s.do(ctx, "append_audit", http.MethodPost, "/rest/v1/product_audit_log", nil, entry); err != nil {
		obs.Logger.Error("audit_append_failed",
			"product_id", entry.ProductID,
			"action_type", entry.ActionType,
			"error", err,
		)
	}
}

func firstProduct(op string, data []byte) (*model.Product, error) {
	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if len(products) == 0 {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("empty representation returned")}
	}
	return &products[0], nil
}

func unitOrNull(unit string) any {
	if unit == "" {
		return nil
	}
	return unit
}
