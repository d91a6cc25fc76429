package models

// MediaRef points at an object owned by the external media store.
type MediaRef struct {
	PublicID string `json:"public_id" gorm:"type:varchar(255)"`
	URL      string `json:"url" gorm:"type:varchar(1024)"`
}

// IsZero reports whether the reference points at nothing.
func (m MediaRef) IsZero() bool {
	return m.PublicID == "" && m.URL == ""
}
