package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMiles_OneDegreeLongitudeAtEquator(t *testing.T) {
	// 1 độ kinh tuyến tại xích đạo với R=3958.8 miles
	d := DistanceMiles(0, 0, 0, 1)
	assert.Equal(t, 69.1, d)
}

func TestDistanceMiles_ZeroDistance(t *testing.T) {
	d := DistanceMiles(40.7596, -111.8867, 40.7596, -111.8867)
	assert.Equal(t, 0.0, d)
}

func TestDistanceMiles_Symmetric(t *testing.T) {
	a := DistanceMiles(40.7596, -111.8867, 40.7608, -111.8910)
	b := DistanceMiles(40.7608, -111.8910, 40.7596, -111.8867)
	assert.Equal(t, a, b)
	assert.Greater(t, a, 0.0)
}

func TestDistanceMiles_RoundedToOneDecimal(t *testing.T) {
	d := DistanceMiles(40.7596, -111.8867, 40.7700, -111.9000)
	assert.Equal(t, math.Round(d*10)/10, d)
}
