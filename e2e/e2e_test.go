//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"catalog-admin-go/internal/config"
	"catalog-admin-go/internal/db"
	familydomain "catalog-admin-go/internal/domain/attributefamily"
	"catalog-admin-go/internal/i18n"
	attributerepo "catalog-admin-go/internal/repository/postgres/attribute"
	familyrepo "catalog-admin-go/internal/repository/postgres/attributefamily"
	"catalog-admin-go/internal/transport/httpserver"
	"catalog-admin-go/internal/transport/httpserver/handler"
	"catalog-admin-go/internal/validation"
	"catalog-admin-go/migrations"
	"catalog-admin-go/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	jwtSecret = "e2e-secret"
	basePath  = "/api/v1/admin/catalog/families"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	token  string
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.Discard()
	cfg := config.Config{
		Storage: config.StoragePostgres,
		HTTP:    config.HTTPConfig{RequestTimeout: 10 * time.Second},
		DB:      config.DBConfig{DSN: dsn},
		Auth:    config.AuthConfig{JWTSecret: jwtSecret},
	}

	dbConn, err := db.NewPostgres(context.Background(), cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(context.Background(), dbConn, migrations.Files, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	translator, err := i18n.New("en")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}

	service := familydomain.NewService(familyrepo.NewPostgres(dbConn), attributerepo.NewPostgres(dbConn), validation.NewEngine())
	handlers := handler.New(service, translator, nil, log)
	router := httpserver.NewRouter(cfg, handlers, log)

	return &testEnv{
		server: httptest.NewServer(router),
		db:     dbConn,
		token:  signToken(t),
	}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func signToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// cleanDB keeps the seeded default family and attributes.
func cleanDB(dbConn *gorm.DB) error {
	ctx := context.Background()
	if err := dbConn.WithContext(ctx).Exec("TRUNCATE TABLE products RESTART IDENTITY").Error; err != nil {
		return err
	}
	return dbConn.WithContext(ctx).Exec("DELETE FROM attribute_families WHERE code <> 'default'").Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type messageResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

type attributeResponse struct {
	ID   uint64 `json:"id"`
	Code string `json:"code"`
}

type groupResponse struct {
	ID               uint64              `json:"id"`
	Name             string              `json:"name"`
	Position         int                 `json:"position"`
	CustomAttributes []attributeResponse `json:"custom_attributes"`
}

type familyResponse struct {
	ID              uint64          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AttributeGroups []groupResponse `json:"attribute_groups"`
}

type familyEnvelope struct {
	Data    familyResponse `json:"data"`
	Message string         `json:"message"`
}

type detailEnvelope struct {
	Data struct {
		AttributeFamily  familyResponse      `json:"attributeFamily"`
		CustomAttributes []attributeResponse `json:"custom_attributes"`
	} `json:"data"`
}

type listEnvelope struct {
	Data []familyResponse `json:"data"`
}

func decode(t *testing.T, body []byte, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
}

func TestE2EAuthRequired(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+basePath, "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EFamilyLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	url := env.server.URL + basePath

	resp, body := requestJSON(t, client, http.MethodPost, url, env.token, map[string]interface{}{
		"code": "shoes",
		"name": "Shoes",
		"attribute_groups": []map[string]interface{}{
			{"name": "General", "custom_attributes": []map[string]interface{}{{"code": "sku"}, {"code": "color"}}},
			{"name": "Pricing", "custom_attributes": []map[string]interface{}{{"code": "price"}}},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var created familyEnvelope
	decode(t, body, &created)
	if created.Data.ID == 0 || created.Message != "Family created successfully." {
		t.Fatalf("unexpected create response: %s", string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, url, env.token, map[string]string{"code": "shoes", "name": "Again"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", resp.StatusCode, string(body))
	}
	var invalid messageResponse
	decode(t, body, &invalid)
	if len(invalid.Errors["code"]) == 0 {
		t.Fatalf("expected code error, got %s", string(body))
	}

	familyURL := fmt.Sprintf("%s/%d", url, created.Data.ID)
	resp, body = requestJSON(t, client, http.MethodGet, familyURL, env.token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var detail detailEnvelope
	decode(t, body, &detail)
	groups := detail.Data.AttributeFamily.AttributeGroups
	if len(groups) != 2 || groups[0].Name != "General" || groups[1].Name != "Pricing" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if len(groups[0].CustomAttributes) != 2 || groups[0].CustomAttributes[0].Code != "sku" || groups[0].CustomAttributes[1].Code != "color" {
		t.Fatalf("unexpected attributes: %+v", groups[0].CustomAttributes)
	}
	if len(detail.Data.CustomAttributes) < 8 {
		t.Fatalf("expected every attribute in custom_attributes, got %d", len(detail.Data.CustomAttributes))
	}

	resp, body = requestJSON(t, client, http.MethodPut, familyURL, env.token, map[string]interface{}{
		"code": "shoes",
		"name": "Footwear",
		"attribute_groups": []map[string]interface{}{
			{"id": groups[0].ID, "name": "Basics", "custom_attributes": []map[string]interface{}{{"code": "name"}}},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var updated familyEnvelope
	decode(t, body, &updated)
	if updated.Data.Name != "Footwear" || len(updated.Data.AttributeGroups) != 1 || updated.Data.AttributeGroups[0].ID != groups[0].ID {
		t.Fatalf("unexpected update response: %s", string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, familyURL, env.token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, familyURL, env.token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EDeleteGuards(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	url := env.server.URL + basePath

	resp, body := requestJSON(t, client, http.MethodGet, url, env.token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var list listEnvelope
	decode(t, body, &list)
	if len(list.Data) != 1 {
		t.Fatalf("expected only the default family, got %d", len(list.Data))
	}
	defaultID := list.Data[0].ID

	resp, body = requestJSON(t, client, http.MethodDelete, fmt.Sprintf("%s/%d", url, defaultID), env.token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, url, env.token, map[string]string{"code": "bags", "name": "Bags"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var bags familyEnvelope
	decode(t, body, &bags)

	if err := env.db.Exec("INSERT INTO products (sku, attribute_family_id) VALUES (?, ?)", "bag-001", bags.Data.ID).Error; err != nil {
		t.Fatalf("insert product: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodDelete, fmt.Sprintf("%s/%d", url, bags.Data.ID), env.token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.StatusCode, string(body))
	}
	var inUse messageResponse
	decode(t, body, &inUse)
	if inUse.Message != "Attribute family is used in products." {
		t.Fatalf("unexpected message %q", inUse.Message)
	}
}

func TestE2EMassDestroy(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	url := env.server.URL + basePath

	ids := make([]uint64, 0, 2)
	for _, code := range []string{"hats", "gloves"} {
		resp, body := requestJSON(t, client, http.MethodPost, url, env.token, map[string]string{"code": code, "name": code})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
		}
		var created familyEnvelope
		decode(t, body, &created)
		ids = append(ids, created.Data.ID)
	}

	resp, body := requestJSON(t, client, http.MethodPost, url+"/mass-destroy", env.token, map[string]interface{}{
		"indexes": ids,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var wrongMethod messageResponse
	decode(t, body, &wrongMethod)
	if wrongMethod.Message != "Error! Wrong method detected, please check mass action configuration." {
		t.Fatalf("unexpected message %q", wrongMethod.Message)
	}

	resp, body = requestJSON(t, client, http.MethodPost, url+"/mass-destroy", env.token, map[string]interface{}{
		"indexes": fmt.Sprintf("%d,%d,999999", ids[0], ids[1]),
		"_method": "DELETE",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var partial messageResponse
	decode(t, body, &partial)
	if partial.Message != "Some actions were not performed due to restricted system constraints on Attribute Family." {
		t.Fatalf("unexpected message %q", partial.Message)
	}

	var remaining int64
	if err := env.db.Table("attribute_families").Count(&remaining).Error; err != nil {
		t.Fatalf("count families: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("expected 1 family left, got %d", remaining)
	}
}
