package utils

import "math"

// Bán kính Trái Đất theo miles (khớp với UI hiển thị khoảng cách bằng miles)
const earthRadiusMiles = 3958.8

// DistanceMiles tính khoảng cách great-circle (haversine) giữa 2 toạ độ,
// làm tròn 1 chữ số thập phân. Không validate input, caller phải đưa toạ độ hợp lệ.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusMiles*c*10) / 10
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
