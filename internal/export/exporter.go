package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/pkg/money"
)

const sheetName = "Бронирования"

var headers = []string{
	"ID", "Дата", "Начало", "Конец", "Клиент", "Событие", "Гостей", "Статус",
	"Часы", "Аренда", "Доп. услуги", "Итого", "Оплачено", "Остаток",
}

// Exporter выгружает бронирования с суммами оплат
type Exporter struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	addonRepo   AddonRepository
	clientRepo  ClientRepository
	txManager   TransactionManager
	logger      Logger
}

// NewExporter создает экспорт
func NewExporter(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	addonRepo AddonRepository,
	clientRepo ClientRepository,
	txManager TransactionManager,
	logger Logger,
) *Exporter {
	return &Exporter{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		addonRepo:   addonRepo,
		clientRepo:  clientRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Build собирает отчёт из одного снимка базы
func (e *Exporter) Build(ctx context.Context, req Request) (*Report, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidPeriod,
			req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.EndDate.Sub(req.StartDate).Hours()/24 >= MaxPeriodDays {
		return nil, fmt.Errorf("%w: max %d days", ErrPeriodTooLong, MaxPeriodDays)
	}

	report := &Report{StartDate: req.StartDate, EndDate: req.EndDate}

	err := e.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		bookings, err := e.bookingRepo.List(txCtx, domain.BookingsFilter{
			StartDate:       &req.StartDate,
			EndDate:         &req.EndDate,
			IncludeArchived: req.IncludeArchived,
		})
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}

		// Кэш имён клиентов: у одного клиента обычно несколько бронирований
		names := make(map[int64]string)
		var grand, paid, outstanding int64

		report.Rows = make([]Row, 0, len(bookings))
		for _, b := range bookings {
			row, err := e.buildRow(txCtx, b, names)
			if err != nil {
				return err
			}
			report.Rows = append(report.Rows, row)

			grand += money.ToCents(row.GrandTotal)
			paid += money.ToCents(row.TotalPaid)
			outstanding += money.ToCents(row.Outstanding)
		}

		report.GrandTotal = money.FromCents(grand)
		report.TotalPaid = money.FromCents(paid)
		report.Outstanding = money.FromCents(outstanding)
		return nil
	})
	if err != nil {
		e.logger.Error("Export: failed to build report: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return report, nil
}

func (e *Exporter) buildRow(ctx context.Context, b *domain.Booking, names map[int64]string) (Row, error) {
	lines, err := e.addonRepo.ListByBooking(ctx, b.ID)
	if err != nil {
		return Row{}, fmt.Errorf("list addons of booking %d: %w", b.ID, err)
	}
	totalPaid, err := e.paymentRepo.SumByBooking(ctx, b.ID)
	if err != nil {
		return Row{}, fmt.Errorf("sum payments of booking %d: %w", b.ID, err)
	}

	name, ok := names[b.ClientID]
	if !ok {
		client, err := e.clientRepo.GetByID(ctx, b.ClientID)
		if err != nil {
			return Row{}, fmt.Errorf("get client %d: %w", b.ClientID, err)
		}
		name = client.Name
		names[b.ClientID] = name
	}

	grand := domain.GrandTotal(b.RentalCost, lines)
	outstanding := money.ToCents(grand) - money.ToCents(totalPaid)
	if outstanding < 0 {
		outstanding = 0
	}

	return Row{
		Booking:     b,
		ClientName:  name,
		AddonsTotal: money.FromCents(money.ToCents(grand) - money.ToCents(b.RentalCost)),
		GrandTotal:  grand,
		TotalPaid:   totalPaid,
		Outstanding: money.FromCents(outstanding),
	}, nil
}

// WriteXLSX строит отчёт и пишет его в w в формате xlsx
func (e *Exporter) WriteXLSX(ctx context.Context, w io.Writer, req Request) (*Report, error) {
	report, err := e.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	f, err := Render(report)
	if err != nil {
		return nil, fmt.Errorf("%w: render: %w", ErrInternal, err)
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return nil, fmt.Errorf("%w: write xlsx: %w", ErrInternal, err)
	}

	e.logger.Info("Export: %d bookings for %s..%s written",
		len(report.Rows), req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	return report, nil
}

// Render раскладывает отчёт по листу книги
func Render(report *Report) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Период: %s - %s",
		report.StartDate.Format("02.01.2006"), report.EndDate.Format("02.01.2006")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 3
	for _, r := range report.Rows {
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &[]interface{}{
			r.Booking.ID,
			r.Booking.BookingDate.Format(domain.DateFormat),
			r.Booking.StartTime.String(),
			r.Booking.EndTime.String(),
			r.ClientName,
			deref(r.Booking.EventType),
			guests(r.Booking.GuestCount),
			string(r.Booking.Status),
			r.Booking.Hours,
			r.Booking.RentalCost,
			r.AddonsTotal,
			r.GrandTotal,
			r.TotalPaid,
			r.Outstanding,
		}); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	totalStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Итого")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("L%d", row), report.GrandTotal)
	_ = f.SetCellValue(sheetName, fmt.Sprintf("M%d", row), report.TotalPaid)
	_ = f.SetCellValue(sheetName, fmt.Sprintf("N%d", row), report.Outstanding)
	_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("N%d", row), totalStyle)

	_ = f.SetColWidth(sheetName, "A", "D", 12)
	_ = f.SetColWidth(sheetName, "E", "F", 25)
	_ = f.SetColWidth(sheetName, "G", "N", 14)

	return f, nil
}

// FileName имя файла выгрузки за период
func FileName(req Request) string {
	return fmt.Sprintf("bookings_%s_to_%s.xlsx",
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func guests(n *int) interface{} {
	if n == nil {
		return ""
	}
	return *n
}
