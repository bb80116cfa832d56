package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/devneill/dinnernotonyourown/middleware"
	"github.com/devneill/dinnernotonyourown/models"
	"github.com/devneill/dinnernotonyourown/services"
)

type RestaurantController struct {
	Dinner *services.DinnerService
}

func NewRestaurantController(dinner *services.DinnerService) *RestaurantController {
	return &RestaurantController{Dinner: dinner}
}

type listReq struct {
	Lat    float64 `form:"lat" binding:"required,min=-90,max=90"`
	Lng    float64 `form:"lng" binding:"required,min=-180,max=180"`
	Radius int     `form:"radius"` // meters, bỏ trống thì service dùng mặc định ~1 mile
}

// GET /api/restaurants?lat=&lng=&radius=
// Trả nguyên set đã merge (catalog + distance + attendance), không sort,
// không cắt top-N - client tự filter để URL share được.
func (ctl *RestaurantController) List(c *gin.Context) {
	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Dữ liệu không hợp lệ",
			"error":   err.Error(),
		})
		return
	}

	u := c.MustGet(middleware.CtxUser).(models.User)
	userID := strconv.FormatUint(uint64(u.ID), 10)

	details, err := ctl.Dinner.GetAllDetails(c.Request.Context(), userID, req.Lat, req.Lng, req.Radius)
	if err != nil {
		if errors.Is(err, services.ErrProvider) {
			c.JSON(http.StatusBadGateway, gin.H{"message": "Không lấy được dữ liệu nhà hàng", "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không lấy được danh sách nhà hàng"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": details})
}

// POST /api/restaurants/:id/join
func (ctl *RestaurantController) Join(c *gin.Context) {
	restaurantID := c.Param("id")
	u := c.MustGet(middleware.CtxUser).(models.User)
	userID := strconv.FormatUint(uint64(u.ID), 10)

	attendee, err := ctl.Dinner.Join(c.Request.Context(), userID, restaurantID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Dữ liệu không hợp lệ",
				"errors":  gin.H{"restaurant_id": "bắt buộc"},
			})
		case errors.Is(err, services.ErrConflict):
			// writer khác vừa insert attendee cho user này; client retry một lần
			c.JSON(http.StatusConflict, gin.H{"message": "Bạn vừa join một group khác, thử lại"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Không join được group"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Join group thành công",
		"data":    attendee,
	})
}

// DELETE /api/restaurants/leave
// Idempotent: chưa join đâu cả vẫn là 200
func (ctl *RestaurantController) Leave(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)
	userID := strconv.FormatUint(uint64(u.ID), 10)

	attendee, err := ctl.Dinner.Leave(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không leave được group"})
		return
	}

	if attendee == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Bạn chưa join group nào"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Leave group thành công",
		"data":    attendee,
	})
}

// GET /api/restaurants/me/group
func (ctl *RestaurantController) MyGroup(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)
	userID := strconv.FormatUint(uint64(u.ID), 10)

	group, err := ctl.Dinner.CurrentGroup(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không lấy được group hiện tại"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": group}) // null nếu chưa join
}
