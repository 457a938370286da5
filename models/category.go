package models

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"unique;not null" json:"name"`
	ParentID *uint     `gorm:"index" json:"parent_id"`
	Parent   *Category `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
