package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/devneill/dinnernotonyourown/models"
)

const defaultPlacesBaseURL = "https://maps.googleapis.com/maps/api/place"

// PlacesClient gọi Google Places API (Nearby Search + Place Details).
// Chỉ đọc từ provider, không ghi gì vào store - persist là việc của CatalogService.
type PlacesClient struct {
	APIKey  string
	BaseURL string // override được trong test
	HTTP    *http.Client
}

func NewPlacesClient(apiKey string) *PlacesClient {
	return &PlacesClient{
		APIKey:  apiKey,
		BaseURL: defaultPlacesBaseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ===== Response shapes từ provider =====

type nearbyResponse struct {
	Status  string        `json:"status"`
	Results []placeResult `json:"results"`
}

type placeResult struct {
	PlaceID    string   `json:"place_id"`
	Name       string   `json:"name"`
	Rating     *float64 `json:"rating"`
	PriceLevel *int     `json:"price_level"`
	Geometry   struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		URL string `json:"url"`
	} `json:"result"`
}

// SearchNearby query rộng theo type=restaurant + radius, không narrow theo
// rating/price ở đây để 1 response cache được dùng lại cho mọi filter UI.
// Với mỗi kết quả gọi song song Place Details lấy link map; 1 detail lỗi
// thì record đó mất link thôi chứ không fail cả batch.
func (p *PlacesClient) SearchNearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]models.Restaurant, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	q.Set("radius", fmt.Sprintf("%d", radiusMeters))
	q.Set("type", "restaurant")
	q.Set("key", p.APIKey)

	var nearby nearbyResponse
	if err := p.getJSON(ctx, p.BaseURL+"/nearbysearch/json?"+q.Encode(), &nearby); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	// ZERO_RESULTS là kết quả rỗng hợp lệ, không phải lỗi
	if nearby.Status == "ZERO_RESULTS" {
		return []models.Restaurant{}, nil
	}
	if nearby.Status != "OK" {
		return nil, fmt.Errorf("%w: nearby search status %s", ErrProvider, nearby.Status)
	}

	restaurants := make([]models.Restaurant, len(nearby.Results))
	var wg sync.WaitGroup
	for i, result := range nearby.Results {
		r := models.Restaurant{
			ID:         result.PlaceID,
			Name:       result.Name,
			Rating:     result.Rating,
			PriceLevel: result.PriceLevel,
			Lat:        result.Geometry.Location.Lat,
			Lng:        result.Geometry.Location.Lng,
		}
		if len(result.Photos) > 0 {
			ref := result.Photos[0].PhotoReference
			r.PhotoRef = &ref
		}
		restaurants[i] = r

		// lookup details song song, mỗi goroutine ghi đúng index của mình
		wg.Add(1)
		go func(i int, placeID string) {
			defer wg.Done()
			mapURL, err := p.fetchMapURL(ctx, placeID)
			if err != nil {
				return // degrade: record này không có link
			}
			restaurants[i].MapURL = &mapURL
		}(i, result.PlaceID)
	}
	wg.Wait()

	return restaurants, nil
}

func (p *PlacesClient) fetchMapURL(ctx context.Context, placeID string) (string, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "url")
	q.Set("key", p.APIKey)

	var details detailsResponse
	if err := p.getJSON(ctx, p.BaseURL+"/details/json?"+q.Encode(), &details); err != nil {
		return "", err
	}
	if details.Status != "OK" || details.Result.URL == "" {
		return "", fmt.Errorf("details status %s", details.Status)
	}
	return details.Result.URL, nil
}

// PhotoURL build URL ảnh provider từ photo reference; chỉ dùng phía server
// trong photo proxy để key không bao giờ lộ ra client.
func (p *PlacesClient) PhotoURL(photoRef string, maxWidth int) string {
	q := url.Values{}
	q.Set("photo_reference", photoRef)
	q.Set("maxwidth", fmt.Sprintf("%d", maxWidth))
	q.Set("key", p.APIKey)
	return p.BaseURL + "/photo?" + q.Encode()
}

func (p *PlacesClient) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := p.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected http status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
