package services

import (
	"context"
	"fmt"

	"github.com/devneill/dinnernotonyourown/models"
	"github.com/devneill/dinnernotonyourown/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogService sở hữu cache TTL cho dữ liệu nearby và việc upsert
// kết quả provider vào store. Các component khác chỉ đọc bảng restaurants.
type CatalogService struct {
	DB     *gorm.DB
	Places *PlacesClient
	Cache  *utils.TTLCache
}

func NewCatalogService(db *gorm.DB, places *PlacesClient, cache *utils.TTLCache) *CatalogService {
	return &CatalogService{DB: db, Places: places, Cache: cache}
}

// cacheKey quantize toạ độ về 4 chữ số thập phân (~11m) để các request
// gần nhau share 1 lần fetch. Key không chứa filter rating/price/distance
// của UI - đó là chủ đích: mọi filter dùng chung 1 cache entry.
func cacheKey(lat, lng float64, radiusMeters int) string {
	return fmt.Sprintf("nearby:%.4f:%.4f:%d", lat, lng, radiusMeters)
}

// GetOrFetchNearby trả về danh sách nhà hàng quanh toạ độ. Cache hit thì
// không đụng provider; miss/hết TTL/giá trị cache sai kiểu thì fetch lại,
// upsert vào store rồi cache chính kết quả đã upsert (cache và store
// không bao giờ lệch nhau).
func (s *CatalogService) GetOrFetchNearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]models.Restaurant, error) {
	key := cacheKey(lat, lng, radiusMeters)

	if cached, ok := s.Cache.Get(key); ok {
		// guard kiểu: giá trị cache phải là slice, sai thì refetch chứ không trả rác
		if restaurants, ok := cached.([]models.Restaurant); ok {
			return restaurants, nil
		}
	}

	fetched, err := s.Places.SearchNearby(ctx, lat, lng, radiusMeters)
	if err != nil {
		return nil, err
	}

	stored, err := s.upsertAll(ctx, fetched)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(key, stored)
	return stored, nil
}

// upsertAll ghi từng entry theo place id: chưa có thì create, có rồi thì
// overwrite field mutable + bump updated_at. Lat/lng không update lại -
// toạ độ là immutable sau lần ghi đầu. Trả về bản ghi đọc lại từ store
// (có timestamp DB) thay vì payload thô của provider.
func (s *CatalogService) upsertAll(ctx context.Context, fetched []models.Restaurant) ([]models.Restaurant, error) {
	if len(fetched) == 0 {
		return []models.Restaurant{}, nil
	}

	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price_level", "rating", "photo_ref", "map_url", "updated_at"}),
	}).Create(&fetched).Error
	if err != nil {
		return nil, fmt.Errorf("upsert restaurants: %w", err)
	}

	ids := make([]string, len(fetched))
	for i, r := range fetched {
		ids[i] = r.ID
	}

	var stored []models.Restaurant
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("reload restaurants: %w", err)
	}
	return stored, nil
}

// ListAll đọc thẳng store, không qua cache: rẻ (local) và phải thấy ngay
// mọi upsert trước đó.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := s.DB.WithContext(ctx).Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}
