package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/idrak-dareshani/mes-system/internal/mes/entity"
	"github.com/idrak-dareshani/mes-system/internal/mes/handler"
	"github.com/idrak-dareshani/mes-system/internal/mes/repository"
	"github.com/idrak-dareshani/mes-system/internal/mes/service"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestSchema = "test_mes"

// TestEnv holds test environment resources
type TestEnv struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Services *service.Services
	T        *testing.T
}

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// loadEnv loads .env from the project root
func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

// SetupTestDB creates a test database connection using a dedicated test schema.
// Each test gets an isolated schema that is cleaned up after the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "mes")
	password := getEnv("DB_PASSWORD", "mes123")
	dbname := getEnv("DB_NAME", "mes_system")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// Create a unique test schema for isolation
	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	// First: create schema using a temporary connection
	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database for schema setup: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// Second: open connection with search_path in DSN so ALL pooled connections use test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Constraint violations must surface as the same gorm sentinels as
		// on the production connection, and the test schema carries the
		// same foreign keys.
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	// Cleanup on test completion
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		// Reconnect to drop the schema
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// SetupEnv wires an isolated database, the full service stack and a router
// with the production route layout against it.
func SetupEnv(t *testing.T) *TestEnv {
	t.Helper()

	db := SetupTestDB(t)
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos)
	handlers := handler.NewHandlers(services, nil)

	r := SetupRouter()

	orders := r.Group("/production-orders")
	{
		orders.GET("/", handlers.Order.List)
		orders.POST("/", handlers.Order.Create)
		orders.GET("/:id", handlers.Order.Get)
		orders.PUT("/:id", handlers.Order.Update)
		orders.DELETE("/:id", handlers.Order.Delete)
		orders.GET("/:id/pass-rate", handlers.Order.PassRate)
	}

	stations := r.Group("/api/workstations")
	{
		stations.GET("/", handlers.Station.List)
		stations.POST("/", handlers.Station.Create)
		stations.GET("/:id", handlers.Station.Get)
		stations.PUT("/:id", handlers.Station.Update)
		stations.DELETE("/:id", handlers.Station.Delete)
		stations.POST("/:id/assign", handlers.Station.Assign)
		stations.POST("/:id/release", handlers.Station.Release)
	}

	checks := r.Group("/quality-checks")
	{
		checks.GET("/", handlers.QualityCheck.List)
		checks.POST("/", handlers.QualityCheck.Create)
		checks.GET("/export", handlers.QualityCheck.Export)
		checks.GET("/:id", handlers.QualityCheck.Get)
		checks.PUT("/:id", handlers.QualityCheck.Update)
		checks.DELETE("/:id", handlers.QualityCheck.Delete)
	}

	r.GET("/dashboard/stats", handlers.Dashboard.Stats)

	return &TestEnv{DB: db, Router: r, Services: services, T: t}
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses a JSON object response body
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// ParseListResponse parses a JSON array response body
func ParseListResponse(w *httptest.ResponseRecorder) []map[string]interface{} {
	var result []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedOrder creates a production order directly in the database
func SeedOrder(t *testing.T, db *gorm.DB, number, product string, qty int, status string) *entity.ProductionOrder {
	t.Helper()
	order := &entity.ProductionOrder{
		OrderNumber: number,
		ProductCode: product,
		Quantity:    qty,
		Status:      status,
		DueDate:     time.Now().UTC().Add(72 * time.Hour),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to seed production order: %v", err)
	}
	return order
}

// SeedStation creates a workstation directly in the database
func SeedStation(t *testing.T, db *gorm.DB, name, status string, orderID *uint) *entity.WorkStation {
	t.Helper()
	station := &entity.WorkStation{
		Name:           name,
		Status:         status,
		CurrentOrderID: orderID,
	}
	if err := db.Create(station).Error; err != nil {
		t.Fatalf("Failed to seed workstation: %v", err)
	}
	return station
}

// SeedCheck creates a quality check directly in the database
func SeedCheck(t *testing.T, db *gorm.DB, orderID uint, parameter string, value, min, max float64) *entity.QualityCheck {
	t.Helper()
	check := &entity.QualityCheck{
		OrderID:          orderID,
		Parameter:        parameter,
		Value:            value,
		SpecificationMin: min,
		SpecificationMax: max,
		CheckedAt:        time.Now().UTC(),
	}
	check.Evaluate()
	if err := db.Create(check).Error; err != nil {
		t.Fatalf("Failed to seed quality check: %v", err)
	}
	return check
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
