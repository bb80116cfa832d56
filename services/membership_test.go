package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devneill/dinnernotonyourown/models"
	"github.com/devneill/dinnernotonyourown/services"
)

func seedRestaurants(t *testing.T, db *gorm.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, db.Create(&models.Restaurant{ID: id, Name: "Quán " + id, Lat: 40.75, Lng: -111.88}).Error)
	}
}

func attendeeCount(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Attendee{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func groupCount(t *testing.T, db *gorm.DB, restaurantID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.DinnerGroup{}).Where("restaurant_id = ?", restaurantID).Count(&n).Error)
	return n
}

func TestJoin_CreatesGroupAndAttendee(t *testing.T) {
	db := newTestDB(t)
	seedRestaurants(t, db, "r1")
	m := services.NewMembershipService(db)
	ctx := context.Background()

	attendee, err := m.Join(ctx, "u1", "r1")
	require.NoError(t, err)
	require.NotNil(t, attendee)
	assert.Equal(t, "u1", attendee.UserID)
	assert.NotEmpty(t, attendee.ID)

	assert.Equal(t, int64(1), attendeeCount(t, db, "u1"))
	assert.Equal(t, int64(1), groupCount(t, db, "r1"))
}

func TestJoin_SecondUserSharesGroup(t *testing.T) {
	db := newTestDB(t)
	seedRestaurants(t, db, "r1")
	m := services.NewMembershipService(db)
	ctx := context.Background()

	a1, err := m.Join(ctx, "u1", "r1")
	require.NoError(t, err)
	a2, err := m.Join(ctx, "u2", "r1")
	require.NoError(t, err)

	assert.Equal(t, a1.DinnerGroupID, a2.DinnerGroupID, "cùng nhà hàng phải dùng chung group")
	assert.Equal(t, int64(1), groupCount(t, db, "r1"))

	counts, err := m.AttendanceCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["r1"])
}

func TestJoin_SwitchingRestaurantsDissolvesEmptyGroup(t *testing.T) {
	db := newTestDB(t)
	seedRestaurants(t, db, "r1", "r2")
	m := services.NewMembershipService(db)
	ctx := context.Background()

	_, err := m.Join(ctx, "u1", "r1")
	require.NoError(t, err)
	_, err = m.Join(ctx, "u1", "r2")
	require.NoError(t, err)

	// bất biến: tối đa 1 attendee row / user
	assert.Equal(t, int64(1), attendeeCount(t, db, "u1"))

	current, err := m.CurrentGroup(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "r2", current.RestaurantID)

	// r1 hết người → group tự giải tán
	assert.Equal(t, int64(0), groupCount(t, db, "r1"))
	assert.Equal(t, int64(1), groupCount(t, db, "r2"))
}

func TestJoin_SwitchingKeepsGroupWithRemainingAttendees(t *testing.T) {
	db := newTestDB(t)
	seedRestaurants(t, db, "r1", "r2")
	m := services.NewMembershipService(db)
	ctx := context.Background()

	_, err := m.Join(ctx, "u1", "r1")
	require.NoError(t, err)
	_, err = m.Join(ctx, "u2", "r1")
	require.NoError(t, err)

	_, err = m.Join(ctx, "u1", "r2")
	require.NoError(t, err)

	// r1 vẫn còn u2 nên group không được giải tán
	assert.Equal(t, int64(1), groupCount(t, db, "r1"))

	counts, err := m.AttendanceCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["r1"])
	assert.Equal(t, 1, counts["r2"])
}

func TestJoin_SameRestaurantTwiceIsStable(t *testing.T) {
	db := newTestDB(t)
	seedRestaurants(t, db, "r1")
	m := services.NewMembershipService(db)
	ctx := context.Background()

	_, err := m.Join(ctx, "u1", "r1")
	require.NoError(t, err)
	_, err = m.Join(ctx, "u1", "r1")
	require.NoError(t, err, "join lại cùng nhà hàng model là leave+join, không phải lỗi")

	assert.Equal(t, int64(1), attendeeCount(t, db, "u1"))
	assert.Equal(t, int64(1), groupCount(t, db, "r1"))
}

func TestLeave_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedRestaurants(t, db, "r1")
	m := services.NewMembershipService(db)
	ctx := context.Background()

	_, err := m.Join(ctx, "u1", "r1")
	require.NoError(t, err)

	left, err := m.Leave(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, left)
	assert.Equal(t, "u1", left.UserID)

	// lần 2 là no-op, không phải lỗi
	left, err = m.Leave(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, left)
}

func TestLeave_LastAttendeeDissolvesGroup(t *testing.T) {
	db := newTestDB(t)
	seedRestaurants(t, db, "r1")
	m := services.NewMembershipService(db)
	ctx := context.Background()

	_, err := m.Join(ctx, "u1", "r1")
	require.NoError(t, err)
	_, err = m.Leave(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, int64(0), groupCount(t, db, "r1"), "group 0 người không được tồn tại")
	assert.Equal(t, int64(0), attendeeCount(t, db, "u1"))
}

func TestCurrentGroup_NilWhenNotAttending(t *testing.T) {
	db := newTestDB(t)
	m := services.NewMembershipService(db)

	group, err := m.CurrentGroup(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, group)
}

func TestCurrentGroup_PreloadsRestaurant(t *testing.T) {
	db := newTestDB(t)
	seedRestaurants(t, db, "r1")
	m := services.NewMembershipService(db)
	ctx := context.Background()

	_, err := m.Join(ctx, "u1", "r1")
	require.NoError(t, err)

	group, err := m.CurrentGroup(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, group)
	require.NotNil(t, group.Restaurant)
	assert.Equal(t, "Quán r1", group.Restaurant.Name)
}

func TestJoin_DuplicateAttendeeRowIsConflict(t *testing.T) {
	db := newTestDB(t)
	seedRestaurants(t, db, "r1")
	m := services.NewMembershipService(db)
	ctx := context.Background()

	// giả lập writer khác đã insert attendee cho u1 mà transaction này không thấy:
	// chèn thẳng row rồi gọi create lần nữa qua DB để chắc chắn unique index hoạt động
	group := models.DinnerGroup{ID: "g-manual", RestaurantID: "r1"}
	require.NoError(t, db.Create(&group).Error)
	require.NoError(t, db.Create(&models.Attendee{ID: "a-manual", UserID: "u1", DinnerGroupID: group.ID}).Error)

	err := db.Create(&models.Attendee{ID: "a-dup", UserID: "u1", DinnerGroupID: group.ID}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey, "unique index trên user_id phải chặn row thứ hai")

	// còn qua service thì leave-first xử lý êm: không lỗi, vẫn đúng 1 row
	_, err = m.Join(ctx, "u1", "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), attendeeCount(t, db, "u1"))
}

func TestAttendanceCounts_EmptyWhenNoGroups(t *testing.T) {
	db := newTestDB(t)
	m := services.NewMembershipService(db)

	counts, err := m.AttendanceCounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts)
}
