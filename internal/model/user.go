package model

// Company tenant — companies
type Company struct {
	CompanyID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"company_id"`
	Name      string `gorm:"type:varchar(200);not null"                     json:"name"`
	BaseModel
}

// TableName table name.
func (Company) TableName() string { return "companies" }

// User actor — users
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(150);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'tecnico'"    json:"role"`   // admin | tecnico | client | dre
	Status       string  `gorm:"type:varchar(20);not null;default:'ausente'"    json:"status"` // presente | ausente | en-ruta | vacaciones | incapacidad
	CompanyID    *string `gorm:"type:uuid"                                      json:"company_id,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	Company *Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
}

// TableName table name.
func (User) TableName() string { return "users" }

// CompanyIDValue returns the company id or "".
func (u *User) CompanyIDValue() string {
	if u.CompanyID == nil {
		return ""
	}
	return *u.CompanyID
}
