package services_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/devneill/dinnernotonyourown/models"
	"github.com/devneill/dinnernotonyourown/services"
	"github.com/devneill/dinnernotonyourown/utils"
)

// newTestDB mở sqlite in-memory riêng cho từng test (cache=shared để các
// connection trong pool thấy chung một DB). TranslateError bật giống
// production để unique violation map về gorm.ErrDuplicatedKey.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.DinnerGroup{},
		&models.Attendee{},
	))
	return db
}

// fakePlace là shape kết quả nearby mà provider giả trả về
type fakePlace struct {
	ID         string
	Name       string
	Rating     *float64
	PriceLevel *int
	Lat        float64
	Lng        float64
	PhotoRef   string
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// newFakeProvider dựng httptest server giả Google Places: nearbysearch trả
// danh sách places, details trả map url. nearbyCalls đếm số lần provider
// thực sự bị gọi (để test cache efficiency).
func newFakeProvider(t *testing.T, places []fakePlace, nearbyCalls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/nearbysearch/json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(nearbyCalls, 1)

		results := make([]map[string]interface{}, 0, len(places))
		for _, p := range places {
			entry := map[string]interface{}{
				"place_id": p.ID,
				"name":     p.Name,
				"geometry": map[string]interface{}{
					"location": map[string]interface{}{"lat": p.Lat, "lng": p.Lng},
				},
			}
			if p.Rating != nil {
				entry["rating"] = *p.Rating
			}
			if p.PriceLevel != nil {
				entry["price_level"] = *p.PriceLevel
			}
			if p.PhotoRef != "" {
				entry["photos"] = []map[string]interface{}{{"photo_reference": p.PhotoRef}}
			}
			results = append(results, entry)
		}

		status := "OK"
		if len(results) == 0 {
			status = "ZERO_RESULTS"
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  status,
			"results": results,
		})
	})

	mux.HandleFunc("/details/json", func(w http.ResponseWriter, r *http.Request) {
		placeID := r.URL.Query().Get("place_id")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "OK",
			"result": map[string]interface{}{"url": "https://maps.example.com/" + placeID},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newCatalog nối CatalogService vào provider giả
func newCatalog(t *testing.T, db *gorm.DB, providerURL string) *services.CatalogService {
	t.Helper()
	places := services.NewPlacesClient("test-key")
	places.BaseURL = providerURL
	return services.NewCatalogService(db, places, utils.NewTTLCache(16, 24*time.Hour))
}
