package handler_test

import (
	"net/http"
	"testing"

	"github.com/idrak-dareshani/mes-system/internal/mes/entity"
	"github.com/idrak-dareshani/mes-system/internal/mes/testutil"
)

func TestDashboardStats(t *testing.T) {
	env := testutil.SetupEnv(t)
	o1 := testutil.SeedOrder(t, env.DB, "PO-DSH-001", "WIDGET-A", 10, entity.OrderStatusActive)
	testutil.SeedOrder(t, env.DB, "PO-DSH-002", "WIDGET-B", 20, entity.OrderStatusPending)
	testutil.SeedOrder(t, env.DB, "PO-DSH-003", "WIDGET-C", 30, entity.OrderStatusCompleted)
	testutil.SeedStation(t, env.DB, "CNC-01", entity.StationStatusActive, &o1.ID)
	testutil.SeedStation(t, env.DB, "CNC-02", entity.StationStatusIdle, nil)
	testutil.SeedCheck(t, env.DB, o1.ID, "diameter", 5.0, 4.5, 5.5) // pass
	testutil.SeedCheck(t, env.DB, o1.ID, "weight", 3.0, 1.0, 2.0)  // fail

	w := testutil.DoRequest(env.Router, "GET", "/dashboard/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)

	orders := resp["orders"].(map[string]interface{})
	if orders["active"].(float64) != 1 || orders["pending"].(float64) != 1 || orders["completed"].(float64) != 1 {
		t.Errorf("Unexpected order counts: %v", orders)
	}

	stations := resp["stations"].(map[string]interface{})
	if stations["active"].(float64) != 1 || stations["idle"].(float64) != 1 {
		t.Errorf("Unexpected station counts: %v", stations)
	}

	if resp["total_checks"].(float64) != 2 || resp["passed_checks"].(float64) != 1 {
		t.Errorf("Unexpected check totals: %v/%v", resp["passed_checks"], resp["total_checks"])
	}
	if rate := resp["quality_rate"].(float64); rate != 0.5 {
		t.Errorf("Expected quality_rate 0.5, got %v", rate)
	}
	if util := resp["station_utilization"].(float64); util != 0.5 {
		t.Errorf("Expected station_utilization 0.5, got %v", util)
	}
}

func TestDashboardStatsEmpty(t *testing.T) {
	env := testutil.SetupEnv(t)

	w := testutil.DoRequest(env.Router, "GET", "/dashboard/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["quality_rate"] != nil {
		t.Errorf("Expected null quality_rate with no checks, got %v", resp["quality_rate"])
	}
	if resp["station_utilization"] != nil {
		t.Errorf("Expected null station_utilization with no stations, got %v", resp["station_utilization"])
	}
}
