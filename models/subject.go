package models

// Subject is a topic tag that rooms can be filed under
type Subject struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}
