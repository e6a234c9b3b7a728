package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/janasena/aadhaar-intake/internal/repository"
)

// Service is a tiny façade over the person repository that produces XLSX
// bytes for bulk exports.
type Service struct {
	persons repository.PersonRepository
	logger  *slog.Logger
}

func NewService(persons repository.PersonRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{persons: persons, logger: logger}
}

// ExportPersonsXLSX returns an XLSX workbook (as bytes) with every stored
// person, newest first.
func (s *Service) ExportPersonsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	persons, err := s.persons.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Persons"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Aadhaar Number",
		"Full Name",
		"Gender",
		"Date of Birth",
		"Mobile Number",
		"Pincode",
		"Image URL",
		"Created At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, p := range persons {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, p.AadhaarNumber)
		write(2, p.FullName)
		write(3, p.Gender)
		write(4, p.DOB)
		write(5, p.MobileNumber)
		write(6, p.Pincode)
		write(7, p.ImageURL)
		write(8, p.CreatedAt.Format(time.RFC3339))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 16)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "E", 14)
	_ = f.SetColWidth(sheet, "F", "F", 10)
	_ = f.SetColWidth(sheet, "G", "G", 48)
	_ = f.SetColWidth(sheet, "H", "H", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(persons),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
