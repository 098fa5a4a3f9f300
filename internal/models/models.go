package models

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	FullName     string `json:"full_name"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
	ProfileID    string `gorm:"index"                    json:"profile_id"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"       json:"id"`
	Token     string `gorm:"unique;not null"  json:"token"`
	UserID    uint   `gorm:"index;not null"   json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"         json:"expires_at"`
	Revoked   bool   `gorm:"default:false"    json:"revoked"`
}

type PasswordReset struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Used      bool   `gorm:"default:false"   json:"used"`
}

// KVSlot is one named value in the persistent key-value storage. The cart
// snapshot and the cached profile mirror live here, one serialized blob per
// slot.
type KVSlot struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"type:text"  json:"value"`
}
