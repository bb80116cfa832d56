package services

import (
	"context"

	"github.com/devneill/dinnernotonyourown/models"
	"github.com/devneill/dinnernotonyourown/utils"
)

// Radius mặc định ~1 mile khi route không truyền radius
const DefaultRadiusMeters = 1609

// RestaurantDetail là row đã merge: catalog + khoảng cách + attendance tươi.
type RestaurantDetail struct {
	models.Restaurant
	DistanceMiles   float64 `json:"distance_miles"`
	AttendeeCount   int     `json:"attendee_count"`
	IsUserAttending bool    `json:"is_user_attending"`
}

// DinnerService là entry point duy nhất cho caller: ghép catalog (cache/store),
// membership (live) và geo thành 1 payload. Không sort/filter/cắt top-N ở đây -
// đó là việc của tầng hiển thị, trả nguyên set để caller tự build view.
type DinnerService struct {
	Catalog *CatalogService
	Members *MembershipService
}

func NewDinnerService(catalog *CatalogService, members *MembershipService) *DinnerService {
	return &DinnerService{Catalog: catalog, Members: members}
}

// GetAllDetails: fetch nearby (có cache) để store luôn đủ dữ liệu, rồi đọc
// store không qua cache + đếm attendance tại thời điểm gọi. Attendance là
// field duy nhất bắt buộc real-time nên không bao giờ đi qua cache.
func (s *DinnerService) GetAllDetails(ctx context.Context, userID string, lat, lng float64, radiusMeters int) ([]RestaurantDetail, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}

	if _, err := s.Catalog.GetOrFetchNearby(ctx, lat, lng, radiusMeters); err != nil {
		return nil, err
	}

	restaurants, err := s.Catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.Members.AttendanceCounts(ctx)
	if err != nil {
		return nil, err
	}

	current, err := s.Members.CurrentGroup(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]RestaurantDetail, 0, len(restaurants))
	for _, r := range restaurants {
		details = append(details, RestaurantDetail{
			Restaurant:      r,
			DistanceMiles:   utils.DistanceMiles(lat, lng, r.Lat, r.Lng),
			AttendeeCount:   counts[r.ID],
			IsUserAttending: current != nil && current.RestaurantID == r.ID,
		})
	}
	return details, nil
}

// Join chỉ validate input rồi uỷ quyền cho MembershipService
func (s *DinnerService) Join(ctx context.Context, userID, restaurantID string) (*models.Attendee, error) {
	if userID == "" || restaurantID == "" {
		return nil, ErrInvalidInput
	}
	return s.Members.Join(ctx, userID, restaurantID)
}

// Leave chỉ validate input rồi uỷ quyền cho MembershipService
func (s *DinnerService) Leave(ctx context.Context, userID string) (*models.Attendee, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Members.Leave(ctx, userID)
}

// CurrentGroup để route /me/group render "bạn đang đi đâu"
func (s *DinnerService) CurrentGroup(ctx context.Context, userID string) (*models.DinnerGroup, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Members.CurrentGroup(ctx, userID)
}
