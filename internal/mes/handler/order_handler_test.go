package handler_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/idrak-dareshani/mes-system/internal/mes/entity"
	"github.com/idrak-dareshani/mes-system/internal/mes/testutil"
)

func TestOrderCreateAndGet(t *testing.T) {
	env := testutil.SetupEnv(t)

	w := testutil.DoRequest(env.Router, "POST", "/production-orders/", map[string]interface{}{
		"order_number": "PO-2026-001",
		"product_code": "WIDGET-A",
		"quantity":     500,
		"due_date":     "2026-09-15",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := testutil.ParseResponse(w)
	if created["status"] != "pending" {
		t.Errorf("Expected default status pending, got %v", created["status"])
	}
	id := created["id"].(float64)
	if id < 1 {
		t.Fatalf("Expected positive id, got %v", id)
	}

	w2 := testutil.DoRequest(env.Router, "GET", fmt.Sprintf("/production-orders/%d", int(id)), nil)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	got := testutil.ParseResponse(w2)
	if got["order_number"] != "PO-2026-001" {
		t.Errorf("Expected order_number PO-2026-001, got %v", got["order_number"])
	}
}

func TestOrderGetNotFound(t *testing.T) {
	env := testutil.SetupEnv(t)

	w := testutil.DoRequest(env.Router, "GET", "/production-orders/9999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40400 {
		t.Errorf("Expected code 40400, got %v", resp["code"])
	}
}

func TestOrderCreateCollectsAllViolations(t *testing.T) {
	env := testutil.SetupEnv(t)

	w := testutil.DoRequest(env.Router, "POST", "/production-orders/", map[string]interface{}{
		"quantity": -5,
		"status":   "bogus",
		"due_date": "not-a-date",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	fields, ok := resp["fields"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected fields map in response: %s", w.Body.String())
	}
	for _, f := range []string{"order_number", "product_code", "quantity", "status", "due_date"} {
		if _, present := fields[f]; !present {
			t.Errorf("Expected violation for %s, fields: %v", f, fields)
		}
	}
}

func TestOrderDuplicateNumberConflict(t *testing.T) {
	env := testutil.SetupEnv(t)
	testutil.SeedOrder(t, env.DB, "PO-DUP-001", "WIDGET-A", 10, entity.OrderStatusPending)

	w := testutil.DoRequest(env.Router, "POST", "/production-orders/", map[string]interface{}{
		"order_number": "PO-DUP-001",
		"product_code": "WIDGET-B",
		"quantity":     20,
		"due_date":     "2026-10-01",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40900 {
		t.Errorf("Expected code 40900, got %v", resp["code"])
	}
}

// Concurrent creates with the same order number must race down to exactly
// one winner at the unique index.
func TestOrderConcurrentCreateSingleWinner(t *testing.T) {
	env := testutil.SetupEnv(t)

	const n = 8
	codes := make([]int, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			w := testutil.DoRequest(env.Router, "POST", "/production-orders/", map[string]interface{}{
				"order_number": "PO-RACE-001",
				"product_code": "WIDGET-A",
				"quantity":     1,
				"due_date":     "2026-09-30",
			})
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	created, conflicted := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		default:
			t.Errorf("Unexpected status %d", code)
		}
	}
	if created != 1 {
		t.Errorf("Expected exactly 1 winner, got %d (conflicts: %d)", created, conflicted)
	}
}

func TestOrderPartialUpdate(t *testing.T) {
	env := testutil.SetupEnv(t)
	order := testutil.SeedOrder(t, env.DB, "PO-UPD-001", "WIDGET-A", 100, entity.OrderStatusPending)

	w := testutil.DoRequest(env.Router, "PUT", fmt.Sprintf("/production-orders/%d", order.ID), map[string]interface{}{
		"quantity": 250,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["quantity"].(float64) != 250 {
		t.Errorf("Expected quantity 250, got %v", resp["quantity"])
	}
	if resp["order_number"] != "PO-UPD-001" {
		t.Errorf("Untouched field changed: %v", resp["order_number"])
	}
	if resp["product_code"] != "WIDGET-A" {
		t.Errorf("Untouched field changed: %v", resp["product_code"])
	}

	// Invalid status leaves the record untouched
	w2 := testutil.DoRequest(env.Router, "PUT", fmt.Sprintf("/production-orders/%d", order.ID), map[string]interface{}{
		"status": "paused",
	})
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w2.Code, w2.Body.String())
	}
	w3 := testutil.DoRequest(env.Router, "GET", fmt.Sprintf("/production-orders/%d", order.ID), nil)
	if got := testutil.ParseResponse(w3); got["status"] != "pending" {
		t.Errorf("Rejected update must not change stored status, got %v", got["status"])
	}
}

func TestOrderUpdateToDuplicateNumber(t *testing.T) {
	env := testutil.SetupEnv(t)
	testutil.SeedOrder(t, env.DB, "PO-UPD-002", "WIDGET-A", 10, entity.OrderStatusPending)
	order := testutil.SeedOrder(t, env.DB, "PO-UPD-003", "WIDGET-B", 10, entity.OrderStatusPending)

	w := testutil.DoRequest(env.Router, "PUT", fmt.Sprintf("/production-orders/%d", order.ID), map[string]interface{}{
		"order_number": "PO-UPD-002",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// Re-sending its own number is not a conflict
	w2 := testutil.DoRequest(env.Router, "PUT", fmt.Sprintf("/production-orders/%d", order.ID), map[string]interface{}{
		"order_number": "PO-UPD-003",
	})
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestOrderTerminalStatusWhileAssignedRejected(t *testing.T) {
	env := testutil.SetupEnv(t)
	order := testutil.SeedOrder(t, env.DB, "PO-TRM-010", "WIDGET-A", 10, entity.OrderStatusActive)
	station := testutil.SeedStation(t, env.DB, "CNC-TRM-01", entity.StationStatusActive, &order.ID)

	// Completing or cancelling an order a station still works on would
	// break the station's order reference invariant
	for _, status := range []string{"completed", "cancelled"} {
		w := testutil.DoRequest(env.Router, "PUT", fmt.Sprintf("/production-orders/%d", order.ID), map[string]interface{}{
			"status": status,
		})
		if w.Code != http.StatusConflict {
			t.Errorf("Status %s while assigned: expected 409, got %d: %s", status, w.Code, w.Body.String())
		}
	}

	// Non-terminal transitions stay allowed while assigned
	w := testutil.DoRequest(env.Router, "PUT", fmt.Sprintf("/production-orders/%d", order.ID), map[string]interface{}{
		"status": "pending",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// After release the terminal transition goes through
	testutil.DoRequest(env.Router, "POST", fmt.Sprintf("/api/workstations/%d/release", station.ID), nil)
	w2 := testutil.DoRequest(env.Router, "PUT", fmt.Sprintf("/production-orders/%d", order.ID), map[string]interface{}{
		"status": "completed",
	})
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200 after release, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestOrderDeleteWhileReferenced(t *testing.T) {
	env := testutil.SetupEnv(t)
	order := testutil.SeedOrder(t, env.DB, "PO-DEL-001", "WIDGET-A", 10, entity.OrderStatusActive)
	check := testutil.SeedCheck(t, env.DB, order.ID, "diameter", 5.0, 4.5, 5.5)

	w := testutil.DoRequest(env.Router, "DELETE", fmt.Sprintf("/production-orders/%d", order.ID), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 while referenced, got %d: %s", w.Code, w.Body.String())
	}

	// Remove the reference, then the delete goes through
	w2 := testutil.DoRequest(env.Router, "DELETE", fmt.Sprintf("/quality-checks/%d", check.ID), nil)
	if w2.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", w2.Code, w2.Body.String())
	}
	w3 := testutil.DoRequest(env.Router, "DELETE", fmt.Sprintf("/production-orders/%d", order.ID), nil)
	if w3.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", w3.Code, w3.Body.String())
	}
	w4 := testutil.DoRequest(env.Router, "GET", fmt.Sprintf("/production-orders/%d", order.ID), nil)
	if w4.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w4.Code)
	}
}

func TestOrderDeleteWhileAssignedToStation(t *testing.T) {
	env := testutil.SetupEnv(t)
	order := testutil.SeedOrder(t, env.DB, "PO-DEL-002", "WIDGET-A", 10, entity.OrderStatusActive)
	testutil.SeedStation(t, env.DB, "CNC-01", entity.StationStatusActive, &order.ID)

	w := testutil.DoRequest(env.Router, "DELETE", fmt.Sprintf("/production-orders/%d", order.ID), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 while assigned, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOrderListStatusFilter(t *testing.T) {
	env := testutil.SetupEnv(t)
	testutil.SeedOrder(t, env.DB, "PO-LST-001", "WIDGET-A", 10, entity.OrderStatusPending)
	testutil.SeedOrder(t, env.DB, "PO-LST-002", "WIDGET-B", 20, entity.OrderStatusActive)
	testutil.SeedOrder(t, env.DB, "PO-LST-003", "WIDGET-C", 30, entity.OrderStatusActive)

	w := testutil.DoRequest(env.Router, "GET", "/production-orders/?status=active", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	orders := testutil.ParseListResponse(w)
	if len(orders) != 2 {
		t.Fatalf("Expected 2 active orders, got %d", len(orders))
	}
	for _, o := range orders {
		if o["status"] != "active" {
			t.Errorf("Filter leaked status %v", o["status"])
		}
	}

	// ID ordering is stable
	w2 := testutil.DoRequest(env.Router, "GET", "/production-orders/", nil)
	all := testutil.ParseListResponse(w2)
	if len(all) != 3 {
		t.Fatalf("Expected 3 orders, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i]["id"].(float64) < all[i-1]["id"].(float64) {
			t.Errorf("Orders not sorted by id ascending")
		}
	}
}

func TestOrderMalformedBody(t *testing.T) {
	env := testutil.SetupEnv(t)

	w := testutil.DoRequest(env.Router, "POST", "/production-orders/", "not-an-object")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40000 {
		t.Errorf("Expected code 40000, got %v", resp["code"])
	}
}
