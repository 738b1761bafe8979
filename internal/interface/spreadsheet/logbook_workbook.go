package spreadsheet

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/internal/domain/repository"
	"logbook-creator/pkg/logger"

	"github.com/xuri/excelize/v2"
)

// Workbook layout
const (
	TemplateSheetName  = "Sheet0"
	HeaderRow          = 2
	FirstDataRow       = HeaderRow + 1
	MaxFlightsPerSheet = 1500
)

// Columns of a data row
const (
	colDate             = "B"
	colDepartureAirport = "C"
	colDepartureTime    = "D"
	colArrivalAirport   = "E"
	colArrivalTime      = "F"
	colVariant          = "G"
	colRegistration     = "H"
	colMultiPilotTime   = "K"
	colTotalTime        = "L"
	colCaptain          = "M"
	colTakeoffsDay      = "N"
	colTakeoffsNight    = "O"
	colLandingsDay      = "P"
	colLandingsNight    = "Q"
	colNightTime        = "R"
	colIFRTime          = "S"
	colPilotTime        = "U"
)

var headerLabels = map[string]string{
	colDate:             "Date",
	colDepartureAirport: "Departure Place",
	colDepartureTime:    "Departure Time",
	colArrivalAirport:   "Arrival Place",
	colArrivalTime:      "Arrival Time",
	colVariant:          "Aircraft Type",
	colRegistration:     "Registration",
	colMultiPilotTime:   "Multi-Pilot Time",
	colTotalTime:        "Total Time",
	colCaptain:          "PIC Name",
	colTakeoffsDay:      "Takeoffs Day",
	colTakeoffsNight:    "Takeoffs Night",
	colLandingsDay:      "Landings Day",
	colLandingsNight:    "Landings Night",
	colNightTime:        "Night Time",
	colIFRTime:          "IFR Time",
	colPilotTime:        "Co-Pilot Time",
}

// LogbookWorkbook writes flight records into the paper-logbook shaped xlsx file
type LogbookWorkbook struct {
	path         string
	templatePath string
	aircraft     entity.AircraftTable
	logger       logger.Logger
}

// NewLogbookWorkbook creates a workbook writer for path. templatePath is used when path does not exist yet.
func NewLogbookWorkbook(path, templatePath string, aircraft entity.AircraftTable, logger logger.Logger) repository.LogbookWriter {
	return &LogbookWorkbook{
		path:         path,
		templatePath: templatePath,
		aircraft:     aircraft,
		logger:       logger,
	}
}

// Rebuild drops every data sheet and writes records in the given order,
// starting a new sheet from the template every MaxFlightsPerSheet rows.
func (w *LogbookWorkbook) Rebuild(records []entity.FlightRecord) error {
	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		if name == TemplateSheetName {
			continue
		}
		if err := f.DeleteSheet(name); err != nil {
			return fmt.Errorf("failed to remove sheet %s: %w", name, err)
		}
	}

	sheets := 0
	for start := 0; start < len(records) || sheets == 0; start += MaxFlightsPerSheet {
		end := start + MaxFlightsPerSheet
		if end > len(records) {
			end = len(records)
		}

		sheet, err := w.newDataSheet(f)
		if err != nil {
			return err
		}
		sheets++

		if err := unmergeDataRows(f, sheet, end-start); err != nil {
			return err
		}

		for i, record := range records[start:end] {
			if err := w.writeRow(f, sheet, FirstDataRow+i, record); err != nil {
				return err
			}
		}
	}

	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Logbook workbook rebuilt", "path", w.path, "flights", len(records), "sheets", sheets)
	return nil
}

// ReadAll reads back every data row. Rows without a date or departure time are skipped.
func (w *LogbookWorkbook) ReadAll() ([]entity.FlightRecord, error) {
	f, err := w.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records := []entity.FlightRecord{}
	for _, sheet := range f.GetSheetList() {
		if sheet == TemplateSheetName {
			continue
		}

		for row := FirstDataRow; row < FirstDataRow+MaxFlightsPerSheet; row++ {
			cell := func(col string) (string, error) {
				return f.GetCellValue(sheet, col+strconv.Itoa(row))
			}

			date, err := cell(colDate)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s row %d: %w", sheet, row, err)
			}
			departure, err := cell(colDepartureTime)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s row %d: %w", sheet, row, err)
			}
			if date == "" || departure == "" {
				continue
			}

			record, err := w.readRow(cell)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s row %d: %w", sheet, row, err)
			}
			records = append(records, record)
		}
	}

	w.logger.Debug("Logbook workbook read", "path", w.path, "flights", len(records))
	return records, nil
}

// open loads the target workbook, or the template when the target does not exist yet
func (w *LogbookWorkbook) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(w.path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to open workbook %s: %w", w.path, err)
	}

	if w.templatePath != "" {
		f, err = excelize.OpenFile(w.templatePath)
		if err == nil {
			if idx, _ := f.GetSheetIndex(TemplateSheetName); idx < 0 {
				f.Close()
				return nil, fmt.Errorf("template %s has no %s sheet", w.templatePath, TemplateSheetName)
			}
			w.logger.Info("Creating logbook from template", "template", w.templatePath)
			return f, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to open template %s: %w", w.templatePath, err)
		}
	}

	w.logger.Warn("Logbook template not found, creating a blank workbook", "template", w.templatePath)
	return newBlankWorkbook()
}

func newBlankWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), TemplateSheetName); err != nil {
		f.Close()
		return nil, err
	}

	for col, label := range headerLabels {
		if err := f.SetCellValue(TemplateSheetName, col+strconv.Itoa(HeaderRow), label); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// newDataSheet copies the template into the next SheetN
func (w *LogbookWorkbook) newDataSheet(f *excelize.File) (string, error) {
	name := fmt.Sprintf("Sheet%d", len(f.GetSheetList()))

	templateIdx, err := f.GetSheetIndex(TemplateSheetName)
	if err != nil || templateIdx < 0 {
		return "", fmt.Errorf("workbook has no %s sheet", TemplateSheetName)
	}

	idx, err := f.NewSheet(name)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	if err := f.CopySheet(templateIdx, idx); err != nil {
		return "", fmt.Errorf("failed to copy template into %s: %w", name, err)
	}

	return name, nil
}

// unmergeDataRows removes single-row merges that cover one of the first rows data rows
func unmergeDataRows(f *excelize.File, sheet string, rows int) error {
	if rows == 0 {
		return nil
	}

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return fmt.Errorf("failed to read merged cells of %s: %w", sheet, err)
	}

	lastRow := FirstDataRow + rows - 1
	for _, merge := range merges {
		start, end := merge.GetStartAxis(), merge.GetEndAxis()
		_, startRow, err := excelize.CellNameToCoordinates(start)
		if err != nil {
			return err
		}
		_, endRow, err := excelize.CellNameToCoordinates(end)
		if err != nil {
			return err
		}

		if startRow != endRow || startRow < FirstDataRow || startRow > lastRow {
			continue
		}
		if err := f.UnmergeCell(sheet, start, end); err != nil {
			return fmt.Errorf("failed to unmerge %s:%s on %s: %w", start, end, sheet, err)
		}
	}

	return nil
}

func (w *LogbookWorkbook) writeRow(f *excelize.File, sheet string, row int, record entity.FlightRecord) error {
	values := map[string]interface{}{
		colDate:             record.Date,
		colDepartureAirport: record.DepartureAirport,
		colDepartureTime:    record.DepartureTime,
		colArrivalAirport:   record.ArrivalAirport,
		colArrivalTime:      record.ArrivalTime,
		colVariant:          w.aircraft.Lookup(record.AircraftRegistration).Variant,
		colRegistration:     record.AircraftRegistration,
		colMultiPilotTime:   record.FlightTime,
		colTotalTime:        record.FlightTime,
		colCaptain:          record.Captain,
		colTakeoffsDay:      record.TakeoffsDay,
		colTakeoffsNight:    record.TakeoffsNight,
		colLandingsDay:      record.LandingsDay,
		colLandingsNight:    record.LandingsNight,
		colNightTime:        record.NightFlightTime,
		colIFRTime:          record.IFRTime,
		colPilotTime:        record.FlightTime,
	}

	for col, value := range values {
		if err := f.SetCellValue(sheet, col+strconv.Itoa(row), value); err != nil {
			return fmt.Errorf("failed to write %s%d on %s: %w", col, row, sheet, err)
		}
	}
	return nil
}

func (w *LogbookWorkbook) readRow(cell func(col string) (string, error)) (entity.FlightRecord, error) {
	text := map[string]string{}
	for col := range headerLabels {
		value, err := cell(col)
		if err != nil {
			return entity.FlightRecord{}, err
		}
		text[col] = strings.TrimSpace(value)
	}

	counts := map[string]int{}
	for _, col := range []string{colTakeoffsDay, colTakeoffsNight, colLandingsDay, colLandingsNight} {
		if text[col] == "" {
			continue
		}
		n, err := strconv.Atoi(text[col])
		if err != nil {
			return entity.FlightRecord{}, fmt.Errorf("column %s: %w", col, err)
		}
		counts[col] = n
	}

	record := entity.FlightRecord{
		Date:                 text[colDate],
		DepartureAirport:     text[colDepartureAirport],
		ArrivalAirport:       text[colArrivalAirport],
		DepartureTime:        text[colDepartureTime],
		ArrivalTime:          text[colArrivalTime],
		AircraftRegistration: text[colRegistration],
		AircraftType:         w.aircraft.Lookup(text[colRegistration]).Model,
		FlightTime:           text[colTotalTime],
		Captain:              text[colCaptain],
		TakeoffsDay:          counts[colTakeoffsDay],
		TakeoffsNight:        counts[colTakeoffsNight],
		LandingsDay:          counts[colLandingsDay],
		LandingsNight:        counts[colLandingsNight],
		NightFlightTime:      text[colNightTime],
		IFRTime:              text[colIFRTime],
	}

	// Left zero for rows without a valid instant, SortFlightRecords reports them
	if key, err := record.SortKey(); err == nil {
		record.DateTime = key
	}

	return record, nil
}
