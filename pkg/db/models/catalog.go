package models

// Service is a catalog entry naming a kind of work the company performs.
type Service struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:service_name;not null"`
}

func (Service) TableName() string { return "services" }

// PaymentMethod is a catalog entry for accepted payment kinds.
type PaymentMethod struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Payment string `gorm:"column:payment;not null"`
}

// TableName keeps the singular legacy name the mobile clients query against.
func (PaymentMethod) TableName() string { return "paymentmethod" }
