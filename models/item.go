package models

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// ItemStatus 代表商品的刊登狀態
type ItemStatus string

const (
	// ItemStatusAvailable 商品可以被瀏覽、搜尋和配對
	ItemStatusAvailable ItemStatus = "available"
	// ItemStatusMatched 商品已經配對成功，不再出現在清單中
	ItemStatusMatched ItemStatus = "matched"
)

// Item 代表交換平台上刊登的閒置物品
// 包含提供者的聯絡資訊、AI產生的物品簡介以及用於語意搜尋的向量
type Item struct {
	gorm.Model

	ID            uuid.UUID       `gorm:"column:item_id;type:uuid;default:public.uuid_generate_v7();primaryKey;<-:false"`
	OwnerID       uuid.UUID       `gorm:"type:uuid;<-:create"`
	ProviderName  string          `gorm:"type:varchar(255);not null"`
	ProviderPhone string          `gorm:"type:varchar(64);not null"`
	Title         string          `gorm:"type:varchar(255);not null"`
	Bio           string          `gorm:"type:text;not null"`
	Category      string          `gorm:"type:varchar(64);not null"`
	ImageURL      string          `gorm:"type:text;not null;<-:create"`
	Status        ItemStatus      `gorm:"type:varchar(16);not null;default:'available'"`
	ItemVector    pgvector.Vector `gorm:"type:vector(768)"`

	Swipes []Swipe `gorm:"foreignKey:ItemID;references:ID"`
}
