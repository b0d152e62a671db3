// internal/models/admin.go
package models

import "time"

type AuditLog struct {
	ID           string    `json:"id" gorm:"primaryKey;size:64"`
	Actor        string    `json:"actor" gorm:"size:64;index"`
	Action       string    `json:"action" gorm:"size:100;not null;index"`
	ResourceType string    `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string    `json:"resource_id,omitempty" gorm:"size:64;index"`
	NewValues    JSONB     `json:"new_values,omitempty" gorm:"type:jsonb"`
	StatusCode   int       `json:"status_code"`
	IPAddress    string    `json:"ip_address" gorm:"size:45"`
	UserAgent    string    `json:"user_agent" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

type CategorySales struct {
	Category Category `json:"name"`
	Units    int      `json:"sales"`
}

type TopProduct struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sold int64  `json:"sold"`
}

type DashboardStats struct {
	TotalOrders     int                 `json:"totalOrders"`
	TotalRevenue    int64               `json:"totalRevenue"`
	OrdersByStatus  map[OrderStatus]int `json:"ordersByStatus"`
	SalesByCategory []CategorySales     `json:"salesByCategory"`
	TopProducts     []TopProduct        `json:"topProducts"`
	TotalProducts   int                 `json:"totalProducts"`
	TotalBookings   int                 `json:"totalBookings"`
}
