package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/devneill/dinnernotonyourown/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipService là nơi duy nhất được ghi bảng dinner_groups / attendees.
// Invariant "mỗi user 1 group" và "mỗi nhà hàng 1 group" nằm ở unique index
// trong DB, không phải lock trong app, nên đúng cả khi chạy nhiều instance.
type MembershipService struct {
	DB *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{DB: db}
}

// Join cho user tham gia dinner group của một nhà hàng.
// Luôn leave trước (no-op nếu chưa ở group nào) - đổi nhà hàng được model
// là leave+join chứ không phải transition riêng, nên invariant không bao giờ
// bị vi phạm kể cả tạm thời. Writer khác chen vào insert attendee cho cùng
// user thì create cuối sẽ vướng unique index và trả ErrConflict.
func (s *MembershipService) Join(ctx context.Context, userID, restaurantID string) (*models.Attendee, error) {
	var attendee models.Attendee

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := leaveTx(tx, userID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		group, err := getOrCreateGroup(tx, restaurantID)
		if err != nil {
			return err
		}

		attendee = models.Attendee{
			ID:            uuid.NewString(),
			UserID:        userID,
			DinnerGroupID: group.ID,
		}
		if err := tx.Create(&attendee).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return fmt.Errorf("create attendee: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

// getOrCreateGroup: upsert group theo unique restaurant_id. Create thua race
// với writer khác thì đọc lại group vừa được tạo.
func getOrCreateGroup(tx *gorm.DB, restaurantID string) (*models.DinnerGroup, error) {
	var group models.DinnerGroup
	err := tx.Where("restaurant_id = ?", restaurantID).First(&group).Error
	if err == nil {
		return &group, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find dinner group: %w", err)
	}

	group = models.DinnerGroup{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
	}
	if err := tx.Create(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := tx.Where("restaurant_id = ?", restaurantID).First(&group).Error; err != nil {
				return nil, fmt.Errorf("refetch dinner group: %w", err)
			}
			return &group, nil
		}
		return nil, fmt.Errorf("create dinner group: %w", err)
	}
	return &group, nil
}

// Leave gỡ attendance hiện tại của user. User không ở group nào thì trả
// (nil, nil) - idempotent, gọi 2 lần liên tiếp không phải lỗi.
func (s *MembershipService) Leave(ctx context.Context, userID string) (*models.Attendee, error) {
	var left *models.Attendee

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attendee, err := leaveTx(tx, userID)
		if err != nil {
			return err
		}
		left = attendee
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// row biến mất giữa lookup và delete: race lành tính, coi như đã leave
			return nil, nil
		}
		return nil, err
	}
	return left, nil
}

// leaveTx: delete attendee + đếm lại + auto-dissolve group rỗng, chạy chung
// transaction với caller nên không ai quan sát được group 0 người.
func leaveTx(tx *gorm.DB, userID string) (*models.Attendee, error) {
	var attendee models.Attendee
	err := tx.Where("user_id = ?", userID).First(&attendee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attendee: %w", err)
	}

	res := tx.Where("id = ?", attendee.ID).Delete(&models.Attendee{})
	if res.Error != nil {
		return nil, fmt.Errorf("delete attendee: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var remaining int64
	if err := tx.Model(&models.Attendee{}).Where("dinner_group_id = ?", attendee.DinnerGroupID).Count(&remaining).Error; err != nil {
		return nil, fmt.Errorf("count attendees: %w", err)
	}
	if remaining == 0 {
		if err := tx.Where("id = ?", attendee.DinnerGroupID).Delete(&models.DinnerGroup{}).Error; err != nil {
			return nil, fmt.Errorf("dissolve dinner group: %w", err)
		}
	}
	return &attendee, nil
}

// CurrentGroup trả về group hiện tại của user (kèm nhà hàng), nil nếu chưa
// join đâu cả. Luôn đọc tươi từ DB, không cache.
func (s *MembershipService) CurrentGroup(ctx context.Context, userID string) (*models.DinnerGroup, error) {
	var attendee models.Attendee
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&attendee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attendee: %w", err)
	}

	var group models.DinnerGroup
	if err := s.DB.WithContext(ctx).Preload("Restaurant").First(&group, "id = ?", attendee.DinnerGroupID).Error; err != nil {
		return nil, fmt.Errorf("find dinner group: %w", err)
	}
	return &group, nil
}

// AttendanceCounts đếm số người theo restaurant_id, tính thẳng từ state
// hiện tại của bảng mỗi lần gọi.
func (s *MembershipService) AttendanceCounts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		RestaurantID string
		Total        int
	}
	err := s.DB.WithContext(ctx).
		Model(&models.Attendee{}).
		Select("dinner_groups.restaurant_id as restaurant_id, count(attendees.id) as total").
		Joins("JOIN dinner_groups ON dinner_groups.id = attendees.dinner_group_id").
		Group("dinner_groups.restaurant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count attendance: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.RestaurantID] = row.Total
	}
	return counts, nil
}
