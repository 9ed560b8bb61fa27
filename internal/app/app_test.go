package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"packing_tracker/internal/config"
	"packing_tracker/internal/database"
	"packing_tracker/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(redisURL string) *config.Config {
	return &config.Config{
		DatabaseDriver: database.DriverSQLite,
		DatabaseURL:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		RedisURL:       redisURL,
		ServerPort:     "0",
		LockTTL:        5,
		CacheTTL:       60,
	}
}

func TestInitializeWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	a, err := Initialize(testConfig("redis://" + mr.Addr()))
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.Redis)

	ctx := context.Background()
	_, err = a.Items.Import(ctx, services.ImportRequest{
		PONumber: "PO-1",
		Items:    []services.ImportItem{{ItemNumber: "1", Quantity: "12"}},
	})
	require.NoError(t, err)
	_, err = a.Packing.PackItems(ctx, services.PackRequest{
		PONumber:   "PO-1",
		CartonType: "S",
		Weight:     decimal.NewFromInt(2),
		Items:      []services.PackSelection{{ItemNumber: "1"}},
	})
	require.NoError(t, err)

	res, err := a.PackingLists.Render(ctx, "PO-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("packing_list:"+res.PackingList.PLNumber))
	assert.False(t, mr.Exists("lock:po:PO-1"))
}

func TestInitializeWithoutRedis(t *testing.T) {
	a, err := Initialize(testConfig(""))
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.Redis)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInitializeFailsOnBadRedis(t *testing.T) {
	_, err := Initialize(testConfig("not a url"))
	assert.Error(t, err)
}
