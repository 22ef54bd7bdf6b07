package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminDashboardStats struct {
	TotalRevenue       float64                   `json:"total_revenue"`
	ActiveSubscribers  int64                     `json:"active_subscribers"`
	ExpiringThisWeek   int64                     `json:"expiring_this_week"`
	ExpiredCount       int64                     `json:"expired_count"`
	RecentTransactions []TransactionListResponse `json:"recent_transactions"`
}

type TransactionListResponse struct {
	Id             uuid.UUID  `json:"id"`
	SubscriptionId *uuid.UUID `json:"subscription_id,omitempty"`
	ChannelName    string     `json:"channel_name"`
	Contact        string     `json:"contact"`
	Amount         float64    `json:"amount"`
	Method         string     `json:"method"`
	Status         string     `json:"status"`
	GatewayOrderId string     `json:"gateway_order_id"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

type PayoutRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	BankAccount string  `json:"bank_account" validate:"required"`
	BankCode    string  `json:"bank_code" validate:"required"`
	Notes       string  `json:"notes"`
}

type PayoutResponse struct {
	PayoutRef string `json:"payout_ref"`
	Status    string `json:"status"`
}

type ChannelRequest struct {
	Name           string  `json:"name" validate:"required"`
	Slug           string  `json:"slug" validate:"required"`
	Description    string  `json:"description"`
	TelegramChatId string  `json:"telegram_chat_id" validate:"required"`
	MonthlyPrice   float64 `json:"monthly_price" validate:"gte=0"`
	YearlyPrice    float64 `json:"yearly_price" validate:"gte=0"`
	Currency       string  `json:"currency"`
	IsActive       bool    `json:"is_active"`
	SortOrder      int     `json:"sort_order"`
}

type ChannelResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	MonthlyPrice float64   `json:"monthly_price"`
	YearlyPrice  float64   `json:"yearly_price"`
	Currency     string    `json:"currency"`
}
