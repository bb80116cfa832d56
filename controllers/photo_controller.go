package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/devneill/dinnernotonyourown/services"
)

type PhotoController struct {
	Places *services.PlacesClient
}

func NewPhotoController(places *services.PlacesClient) *PhotoController {
	return &PhotoController{Places: places}
}

// GET /api/photos/:ref
// Pass-through stream ảnh từ provider: nhận photo reference opaque, gọi
// provider phía server (key không bao giờ ra client) và trả thẳng binary
// với cache 24h. Không có logic gì khác ở đây.
func (ctl *PhotoController) Proxy(c *gin.Context) {
	ref := c.Param("ref")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Thiếu photo reference"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, ctl.Places.PhotoURL(ref, 400), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không tạo được request ảnh"})
		return
	}

	resp, err := ctl.Places.HTTP.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": "Không lấy được ảnh"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadGateway, gin.H{"message": "Provider trả lỗi ảnh"})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, resp.ContentLength, resp.Header.Get("Content-Type"), resp.Body, nil)
}
