package export

import (
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
)

// MaxPeriodDays максимальная длина выгрузки
const MaxPeriodDays = 366

// Request параметры выгрузки
type Request struct {
	StartDate       time.Time
	EndDate         time.Time
	IncludeArchived bool
}

// Row строка отчёта
type Row struct {
	Booking     *domain.Booking
	ClientName  string
	AddonsTotal float64
	GrandTotal  float64
	TotalPaid   float64
	Outstanding float64
}

// Report отчёт по бронированиям за период
type Report struct {
	StartDate time.Time
	EndDate   time.Time
	Rows      []Row

	GrandTotal  float64
	TotalPaid   float64
	Outstanding float64
}
