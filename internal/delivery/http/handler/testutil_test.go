package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"smart-farm-monitor/internal/config"
	"smart-farm-monitor/internal/control"
	"smart-farm-monitor/internal/infrastructure/database/postgres"
	"smart-farm-monitor/internal/infrastructure/database/postgres/models"
	"smart-farm-monitor/internal/logger"
	"smart-farm-monitor/internal/middleware"
	"smart-farm-monitor/internal/usecase/board"
	"smart-farm-monitor/internal/usecase/dashboard"
	"smart-farm-monitor/internal/usecase/farm"
	"smart-farm-monitor/internal/usecase/store"
	"smart-farm-monitor/internal/usecase/user"
	"smart-farm-monitor/pkg/utils"
)

const testJWTSecret = "handler-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Init("development"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// fakeControlPublisher stands in for the MQTT client in control tests.
type fakeControlPublisher struct {
	connected  bool
	publishErr error
	payloads   []string
}

func (f *fakeControlPublisher) Publish(topic string, qos byte, retained bool, payload []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.payloads = append(f.payloads, string(payload))
	return nil
}

func (f *fakeControlPublisher) IsConnected() bool {
	return f.connected
}

// testEnv bundles everything a handler test touches.
type testEnv struct {
	db        *postgres.DB
	router    *gin.Engine
	cfg       *config.Config
	publisher *fakeControlPublisher
}

// newTestEnv builds an in-memory database and a router with the full
// route table behind the real auth middleware.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// A named shared-cache DSN keeps every pooled connection on the
	// same in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	db := &postgres.DB{DB: gormDB}
	require.NoError(t, db.AutoMigrate())

	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: testJWTSecret, ExpiryHours: 24},
		Upload: config.UploadConfig{
			Dir:        t.TempDir(),
			MaxSizeMB:  5,
			PublicPath: "/uploads",
		},
	}

	userRepo := postgres.NewUserRepository(db)
	farmRepo := postgres.NewFarmRepository(db)
	telemetryRepo := postgres.NewTelemetryRepository(db)
	boardRepo := postgres.NewBoardRepository(db)
	storeRepo := postgres.NewStoreRepository(db)

	publisher := &fakeControlPublisher{connected: true}
	bridge := control.NewBridge(control.NewStateStore(), publisher, "esp32/control", 1)

	userHandler := NewUserHandler(user.NewService(userRepo, farmRepo, telemetryRepo, cfg), cfg)
	farmHandler := NewFarmHandler(farm.NewService(farmRepo))
	dashboardHandler := NewDashboardHandler(dashboard.NewService(farmRepo, telemetryRepo))
	boardHandler := NewBoardHandler(board.NewService(boardRepo, userRepo), cfg.Upload)
	storeHandler := NewStoreHandler(store.NewService(storeRepo, farmRepo))
	controlHandler := NewControlHandler(bridge)

	router := gin.New()
	root := router.Group("")
	userHandler.RegisterPublicRoutes(root)
	boardHandler.RegisterPublicRoutes(root)
	storeHandler.RegisterPublicRoutes(root)

	protected := root.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	userHandler.RegisterProfileRoutes(protected)
	farmHandler.RegisterRoutes(protected)
	dashboardHandler.RegisterRoutes(protected)
	boardHandler.RegisterRoutes(protected)
	storeHandler.RegisterRoutes(protected)
	controlHandler.RegisterRoutes(protected)

	admin := protected.Group("")
	admin.Use(middleware.AdminOnly())
	storeHandler.RegisterAdminRoutes(admin)

	return &testEnv{db: db, router: router, cfg: cfg, publisher: publisher}
}

// createUser inserts a user row directly and returns its id with a valid
// session token.
func (e *testEnv) createUser(t *testing.T, email, nickname string) (uint, string) {
	return e.createUserWithRole(t, email, nickname, "user")
}

func (e *testEnv) createUserWithRole(t *testing.T, email, nickname, role string) (uint, string) {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	u := models.UserModel{
		Email:     email,
		Password:  hash,
		UserName:  "Test Grower",
		Nickname:  nickname,
		Role:      role,
		CreatedAt: time.Now(),
	}
	require.NoError(t, e.db.Create(&u).Error)

	token, err := utils.GenerateToken(u.ID, u.Role, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return u.ID, token
}

// createFarm inserts a farm row owned by userID.
func (e *testEnv) createFarm(t *testing.T, userID uint, name, crop string) uint {
	t.Helper()

	f := models.FarmModel{
		UserID:    userID,
		FarmName:  name,
		PlantName: crop,
		CreatedAt: time.Now(),
	}
	require.NoError(t, e.db.Create(&f).Error)
	return f.ID
}

// request performs an HTTP call against the test router. A non-empty
// token is sent as the session cookie.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: token})
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a recorded JSON response into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
