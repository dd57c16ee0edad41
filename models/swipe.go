package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SwipeDirection 代表滑動的方向
type SwipeDirection string

const (
	// SwipeDirectionLeft 向左滑動，代表拒絕
	SwipeDirectionLeft SwipeDirection = "left"
	// SwipeDirectionRight 向右滑動，代表接受並配對
	SwipeDirectionRight SwipeDirection = "right"
)

// Valid 檢查滑動方向是否為合法值
func (d SwipeDirection) Valid() bool {
	return d == SwipeDirectionLeft || d == SwipeDirectionRight
}

// Swipe 代表使用者對某個物品的一次滑動紀錄
// 紀錄只會新增，不會被修改或刪除
type Swipe struct {
	gorm.Model

	ID        uuid.UUID      `gorm:"column:swipe_id;type:uuid;default:public.uuid_generate_v7();primaryKey;<-:false"`
	SwiperID  uuid.UUID      `gorm:"type:uuid;not null;<-:create"`
	ItemID    uuid.UUID      `gorm:"type:uuid;not null;<-:create"`
	Direction SwipeDirection `gorm:"type:varchar(8);not null;<-:create"`
	IsMatch   bool           `gorm:"not null;<-:create"`
}
