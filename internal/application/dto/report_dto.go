package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodDTO rango de fechas de un reporte (YYYY-MM-DD, inclusivo).
type PeriodDTO struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// DailyReportResponse ingresos del día (solo PAID).
type DailyReportResponse struct {
	Date              string                `json:"date"`
	TotalRevenue      decimal.Decimal       `json:"totalRevenue"`
	TotalTransactions int                   `json:"totalTransactions"`
	TotalMechanicFee  decimal.Decimal       `json:"totalMechanicFee"`
	NetRevenue        decimal.Decimal       `json:"netRevenue"`
	Transactions      []TransactionResponse `json:"transactions"`
}

// MechanicCommissionDTO comisión de un mecánico.
type MechanicCommissionDTO struct {
	MechanicID      string          `json:"mechanicId"`
	MechanicName    string          `json:"mechanicName"`
	BranchName      string          `json:"branchName"`
	TotalJobs       int             `json:"totalJobs"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
}

// MechanicCommissionResponse reporte mensual de comisiones.
type MechanicCommissionResponse struct {
	Period          PeriodDTO               `json:"period"`
	TotalCommission decimal.Decimal         `json:"totalCommission"`
	TotalJobs       int                     `json:"totalJobs"`
	Mechanics       []MechanicCommissionDTO `json:"mechanics"`
}

// TopProductDTO producto más vendido.
type TopProductDTO struct {
	ProductID        string          `json:"productId"`
	ProductName      string          `json:"productName"`
	SKU              string          `json:"sku"`
	Type             string          `json:"type"`
	TotalQty         int             `json:"totalQty"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TransactionCount int             `json:"transactionCount"`
}

// TopProductsResponse ranking por cantidad vendida.
type TopProductsResponse struct {
	Period   PeriodDTO       `json:"period"`
	Products []TopProductDTO `json:"products"`
}

// VehicleHistoryItem línea de una visita.
type VehicleHistoryItem struct {
	Product  string          `json:"product"`
	Type     string          `json:"type"`
	Qty      int             `json:"qty"`
	Price    decimal.Decimal `json:"price"`
	Mechanic *string         `json:"mechanic"`
}

// VehicleVisit una transacción de la placa.
type VehicleVisit struct {
	ID     string               `json:"id"`
	Date   time.Time            `json:"date"`
	Branch string               `json:"branch"`
	Total  decimal.Decimal      `json:"total"`
	Status string               `json:"status"`
	Items  []VehicleHistoryItem `json:"items"`
}

// VehicleHistoryResponse historial de servicio por placa. TotalSpent excluye canceladas.
type VehicleHistoryResponse struct {
	CustomerPlate string          `json:"customerPlate"`
	TotalVisits   int             `json:"totalVisits"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	History       []VehicleVisit  `json:"history"`
}

// LowStockItem producto bajo su umbral en una sucursal.
type LowStockItem struct {
	ID           string `json:"id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	BranchID     string `json:"branchId"`
	BranchName   string `json:"branchName"`
	MinStock     int    `json:"minStock"`
	CurrentStock int    `json:"currentStock"`
	Deficit      int    `json:"deficit"`
}

// LowStockResponse forma esperada por el dashboard.
type LowStockResponse struct {
	Count int            `json:"count"`
	Items []LowStockItem `json:"items"`
}

// DashboardResponse resumen del día y del mes en curso.
type DashboardResponse struct {
	Date              string          `json:"date"`
	DateLabel         string          `json:"dateLabel"`
	TodayRevenue      decimal.Decimal `json:"todayRevenue"`
	TodayTransactions int             `json:"todayTransactions"`
	MonthRevenue      decimal.Decimal `json:"monthRevenue"`
	MonthCommission   decimal.Decimal `json:"monthCommission"`
	TopProducts       []TopProductDTO `json:"topProducts"`
	LowStockCount     int             `json:"lowStockCount"`
}
