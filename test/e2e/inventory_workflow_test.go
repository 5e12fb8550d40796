//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/mmammidi/inventory-management-api/internal/adapters/db"
	redis_a "github.com/mmammidi/inventory-management-api/internal/adapters/redis_adapter"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
	"github.com/mmammidi/inventory-management-api/internal/core/services"
	"github.com/mmammidi/inventory-management-api/internal/handlers"
	"github.com/mmammidi/inventory-management-api/test/helpers"
)

// InventoryWorkflowSuite drives the HTTP API against a real PostgreSQL
// container and an in-process Redis, with no mocked layers in between.
type InventoryWorkflowSuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	baseURL   string
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis
	movements ports.MovementRepository
}

func (s *InventoryWorkflowSuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.testRedis = helpers.SetupTestRedis(s.T())

	s.server = httptest.NewServer(s.buildRouter())
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + "/api/v1"
}

func (s *InventoryWorkflowSuite) TearDownSuite() {
	s.server.Close()
}

func (s *InventoryWorkflowSuite) buildRouter() http.Handler {
	logger := helpers.TestLogger()
	database := s.testDB.Database

	itemRepo := db.NewItemRepository(database, logger)
	movementRepo := db.NewMovementRepository(database, logger)
	categoryRepo := db.NewCategoryRepository(database, logger)
	supplierRepo := db.NewSupplierRepository(database, logger)
	userRepo := db.NewUserRepository(database, logger)
	txScope := db.NewTransactionScope(database, logger)
	cache := redis_a.NewCache(s.testRedis.Client, time.Minute, logger)

	s.movements = movementRepo

	itemService := services.NewItemService(txScope, itemRepo, cache, logger)
	movementService := services.NewMovementService(txScope, movementRepo, itemRepo, cache, nil, logger)
	statsService := services.NewStatsService(database.Pool(), movementRepo, cache, logger)
	categoryService := services.NewCategoryService(categoryRepo, logger)
	supplierService := services.NewSupplierService(supplierRepo, logger)
	userService := services.NewUserService(userRepo, logger)

	itemHandler := handlers.NewItemHandler(itemService, logger)
	movementHandler := handlers.NewMovementHandler(movementService, logger)
	statsHandler := handlers.NewStatsHandler(statsService, logger)
	catalogHandler := handlers.NewCatalogHandler(categoryService, supplierService, userService, logger)
	healthHandler := handlers.NewHealthHandler(database, s.testRedis.Client, nil, helpers.LoadTestConfig(), logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)

	mux.HandleFunc("POST /api/v1/items", itemHandler.CreateItem)
	mux.HandleFunc("GET /api/v1/items", itemHandler.ListItems)
	mux.HandleFunc("GET /api/v1/items/{id}", itemHandler.GetItem)
	mux.HandleFunc("GET /api/v1/items/sku/{sku}", itemHandler.GetItemBySKU)
	mux.HandleFunc("PUT /api/v1/items/{id}", itemHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/v1/items/{id}", itemHandler.DeleteItem)

	mux.HandleFunc("POST /api/v1/movements", movementHandler.CreateMovement)
	mux.HandleFunc("GET /api/v1/movements", movementHandler.ListMovements)
	mux.HandleFunc("GET /api/v1/movements/aggregate", movementHandler.AggregateMovements)
	mux.HandleFunc("GET /api/v1/movements/range", movementHandler.ListMovementsByRange)
	mux.HandleFunc("GET /api/v1/movements/{id}", movementHandler.GetMovement)
	mux.HandleFunc("GET /api/v1/items/{id}/movements", movementHandler.ListItemMovements)
	mux.HandleFunc("POST /api/v1/items/{id}/adjust", movementHandler.AdjustQuantity)

	mux.HandleFunc("POST /api/v1/categories", catalogHandler.CreateCategory)
	mux.HandleFunc("GET /api/v1/categories", catalogHandler.ListCategories)

	mux.HandleFunc("GET /api/v1/stats", statsHandler.GetStats)
	mux.HandleFunc("GET /api/v1/stats/low-stock", statsHandler.GetLowStock)

	return mux
}

func (s *InventoryWorkflowSuite) TestStockLifecycle() {
	// Create an item with opening stock.
	created := s.createItem(map[string]interface{}{
		"sku":          "E2E-0001",
		"name":         "M12 Hex Bolt",
		"quantity":     10,
		"min_quantity": 2,
		"unit_cost":    "0.55",
		"unit_price":   "1.10",
	})
	itemID := created["id"].(string)
	s.Equal("ACTIVE", created["status"])

	// Receive stock.
	resp := s.makeRequest(http.MethodPost, "/movements", map[string]interface{}{
		"item_id":  itemID,
		"type":     "IN",
		"quantity": 5,
		"reason":   "restock",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var result map[string]interface{}
	s.decodeResponse(resp, &result)
	s.Equal(float64(15), result["new_quantity"])
	s.Equal(float64(10), result["previous_quantity"])

	// Ship most of it.
	resp = s.makeRequest(http.MethodPost, "/movements", map[string]interface{}{
		"item_id":  itemID,
		"type":     "OUT",
		"quantity": 12,
		"reason":   "order fulfilment",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.decodeResponse(resp, &result)
	s.Equal(float64(3), result["new_quantity"])

	// Shipping more than is on hand must be rejected without touching stock.
	resp = s.makeRequest(http.MethodPost, "/movements", map[string]interface{}{
		"item_id":  itemID,
		"type":     "OUT",
		"quantity": 50,
	})
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.decodeResponse(resp, &result)
	s.Equal(float64(3), result["available"])

	// Cycle count to zero flips the status.
	resp = s.makeRequest(http.MethodPost, fmt.Sprintf("/items/%s/adjust", itemID), map[string]interface{}{
		"quantity": 0,
		"reason":   "cycle count",
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decodeResponse(resp, &result)
	s.Equal("OUT_OF_STOCK", result["status"])

	// A customer return brings it back.
	resp = s.makeRequest(http.MethodPost, "/movements", map[string]interface{}{
		"item_id":  itemID,
		"type":     "RETURN",
		"quantity": 4,
		"reason":   "customer return",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.decodeResponse(resp, &result)
	s.Equal(float64(4), result["new_quantity"])
	s.Equal("ACTIVE", result["status"])

	// The ledger holds the opening stock entry plus every applied movement,
	// rejected ones excluded.
	resp = s.makeRequest(http.MethodGet, fmt.Sprintf("/items/%s/movements?limit=50", itemID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var listing map[string]interface{}
	s.decodeResponse(resp, &listing)
	s.Equal(float64(5), listing["total_count"])

	// Soft delete hides the item from reads.
	resp = s.makeRequest(http.MethodDelete, "/items/"+itemID, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.makeRequest(http.MethodGet, "/items/"+itemID, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *InventoryWorkflowSuite) TestLedgerReplayMatchesQuantity() {
	created := s.createItem(map[string]interface{}{
		"sku":      "E2E-0002",
		"name":     "Wood Screw 4x40",
		"quantity": 100,
	})
	itemID := uuid.MustParse(created["id"].(string))

	steps := []map[string]interface{}{
		{"item_id": itemID, "type": "OUT", "quantity": 30},
		{"item_id": itemID, "type": "IN", "quantity": 12},
		{"item_id": itemID, "type": "TRANSFER", "quantity": 7},
		{"item_id": itemID, "type": "RETURN", "quantity": 2},
	}
	for _, step := range steps {
		resp := s.makeRequest(http.MethodPost, "/movements", step)
		s.Equal(http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := s.makeRequest(http.MethodGet, "/items/"+itemID.String(), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var item map[string]interface{}
	s.decodeResponse(resp, &item)
	s.Equal(float64(77), item["quantity"])

	// Folding the ledger from scratch reproduces the stored quantity.
	replayed, err := s.movements.ReplayQuantity(s.T().Context(), itemID)
	s.NoError(err)
	s.Equal(77, replayed)
}

func (s *InventoryWorkflowSuite) TestConcurrentShipmentsNeverOversell() {
	created := s.createItem(map[string]interface{}{
		"sku":      "E2E-0003",
		"name":     "Angle Grinder Disc",
		"quantity": 5,
	})
	itemID := created["id"].(string)

	var wg sync.WaitGroup
	statuses := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := s.makeRequest(http.MethodPost, "/movements", map[string]interface{}{
				"item_id":  itemID,
				"type":     "OUT",
				"quantity": 1,
			})
			statuses <- resp.StatusCode
			resp.Body.Close()
		}()
	}
	wg.Wait()
	close(statuses)

	applied, rejected := 0, 0
	for code := range statuses {
		switch code {
		case http.StatusCreated:
			applied++
		case http.StatusConflict:
			rejected++
		default:
			s.Failf("unexpected status", "got %d", code)
		}
	}
	s.Equal(5, applied)
	s.Equal(5, rejected)

	resp := s.makeRequest(http.MethodGet, "/items/"+itemID, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var item map[string]interface{}
	s.decodeResponse(resp, &item)
	s.Equal(float64(0), item["quantity"])
	s.Equal("OUT_OF_STOCK", item["status"])
}

func (s *InventoryWorkflowSuite) TestListAndStats() {
	for i := 0; i < 3; i++ {
		s.createItem(map[string]interface{}{
			"sku":          fmt.Sprintf("E2E-LIST-%04d", i),
			"name":         fmt.Sprintf("Listed Widget %d", i),
			"quantity":     i, // first one starts out of stock
			"min_quantity": 5,
		})
	}

	resp := s.makeRequest(http.MethodGet, "/items?search=Listed+Widget&limit=10", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var listing map[string]interface{}
	s.decodeResponse(resp, &listing)
	s.GreaterOrEqual(listing["total_count"], float64(3))

	resp = s.makeRequest(http.MethodGet, "/stats", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var stats map[string]interface{}
	s.decodeResponse(resp, &stats)
	s.Contains(stats, "total_items")
	s.Contains(stats, "low_stock_count")

	resp = s.makeRequest(http.MethodGet, "/stats/low-stock?limit=10", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *InventoryWorkflowSuite) TestHealthCheck() {
	resp, err := s.client.Get(s.server.URL + "/health")
	s.NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	var health map[string]interface{}
	s.decodeResponse(resp, &health)
	s.Equal("healthy", health["status"])

	svcs := health["services"].(map[string]interface{})
	s.Contains(svcs, "database")
	s.Contains(svcs, "redis")
}

func (s *InventoryWorkflowSuite) createItem(body map[string]interface{}) map[string]interface{} {
	resp := s.makeRequest(http.MethodPost, "/items", body)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	s.decodeResponse(resp, &created)
	s.Require().NotEmpty(created["id"])
	return created
}

func (s *InventoryWorkflowSuite) makeRequest(method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reqBody)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *InventoryWorkflowSuite) decodeResponse(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func TestInventoryWorkflowSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end tests in short mode")
	}
	suite.Run(t, new(InventoryWorkflowSuite))
}
