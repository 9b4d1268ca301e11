// Package ingest decodes uploaded CSV extracts into domain records.
//
// Two input shapes are accepted: raw per-invoice rows (one row per completed
// sale, aggregated by the pipeline) and pre-aggregated register-period
// volume exports, which may additionally carry upstream classification
// columns. Headers are matched case-insensitively. A missing required
// column or an unparseable cell rejects the whole file; nothing is ever
// partially ingested.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/venueops/registerwatch/internal/common"
	"github.com/venueops/registerwatch/internal/model"
)

// Column names of the extract schema. Aliases cover the variants observed
// across exports.
const (
	colStore      = "STORE_CODE"
	colYear       = "CREATED_YEAR"
	colDay        = "DATE_INDEX"
	colBucket     = "TIME_PARTITION"
	colRegister   = "WORKSTATION"
	colCount      = "INVOICE_COUNT"
	colLevel      = "ACTIVITY_LEVEL"
	colStatus     = "STATUS"
	colDevice     = "WORKSTATION_TYPE"
	colElapsed    = "TRANSACTIONS_TIME"
	colElapsedAlt = "ELAPSED_TIME"
	colItems      = "QTY_ITEMS_SOLD"
	colItemsAlt   = "BASKET_SIZE"
	colSales      = "TOTAL_SALES"
	colSalesAlt   = "BASKET_AMT"
	colDailyCount = "DAILY_STORE_INVOICE_COUNT"
)

// VolumeRow is one decoded row of a volume export. Uploaded classification
// columns are preserved for comparison but never trusted: the pipeline
// recomputes levels and statuses from the counts.
type VolumeRow struct {
	model.RegisterPeriodVolume
	UploadedLevel          model.ActivityLevel
	UploadedStatus         model.Status
	UploadedDevice         model.DeviceType
	DailyStoreInvoiceCount int
}

// Reader decodes extracts, clamping invoice elapsed times at the configured
// cap.
type Reader struct {
	elapsedTimeCap float64
}

// NewReader creates a Reader with the given per-invoice elapsed-time cap in
// seconds.
func NewReader(elapsedTimeCap float64) *Reader {
	return &Reader{elapsedTimeCap: elapsedTimeCap}
}

// header maps canonical column names to field indexes.
type header map[string]int

// index returns the column index for the first present name, or -1.
func (h header) index(names ...string) int {
	for _, name := range names {
		if i, ok := h[name]; ok {
			return i
		}
	}
	return -1
}

func readHeader(r *csv.Reader) (header, error) {
	record, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", common.ErrSchema)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", common.ErrSchema, err)
	}
	h := make(header, len(record))
	for i, name := range record {
		h[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return h, nil
}

func requireColumns(h header, groups ...[]string) error {
	var missing []string
	for _, group := range groups {
		if h.index(group...) < 0 {
			missing = append(missing, group[0])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required columns: %s", common.ErrSchema, strings.Join(missing, ", "))
	}
	return nil
}

// ReadVolumes decodes a pre-aggregated volume export.
func (r *Reader) ReadVolumes(src io.Reader) ([]VolumeRow, error) {
	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true

	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(h,
		[]string{colStore},
		[]string{colYear},
		[]string{colDay},
		[]string{colBucket},
		[]string{colRegister},
		[]string{colCount},
	); err != nil {
		return nil, err
	}

	var rows []VolumeRow
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", common.ErrSchema, line, err)
		}

		row := VolumeRow{}
		row.Store = field(record, h.index(colStore))
		row.RegisterID = field(record, h.index(colRegister))
		if row.Year, err = cellInt(record, h, line, colYear); err != nil {
			return nil, err
		}
		if row.DayIndex, err = cellInt(record, h, line, colDay); err != nil {
			return nil, err
		}
		if row.TimeBucket, err = cellFloat(record, h, line, colBucket); err != nil {
			return nil, err
		}
		if row.InvoiceCount, err = cellInt(record, h, line, colCount); err != nil {
			return nil, err
		}
		if row.InvoiceCount < 0 {
			return nil, fmt.Errorf("%w: row %d: %s must not be negative", common.ErrSchema, line, colCount)
		}

		if i := h.index(colElapsed, colElapsedAlt); i >= 0 {
			if row.TotalElapsedTime, err = cellFloat(record, h, line, colElapsed, colElapsedAlt); err != nil {
				return nil, err
			}
		}
		if i := h.index(colItems, colItemsAlt); i >= 0 {
			if row.TotalItems, err = cellInt(record, h, line, colItems, colItemsAlt); err != nil {
				return nil, err
			}
		}
		if i := h.index(colSales, colSalesAlt); i >= 0 {
			if row.TotalSales, err = cellFloat(record, h, line, colSales, colSalesAlt); err != nil {
				return nil, err
			}
		}
		if i := h.index(colDailyCount); i >= 0 {
			if row.DailyStoreInvoiceCount, err = cellInt(record, h, line, colDailyCount); err != nil {
				return nil, err
			}
		}

		if i := h.index(colLevel); i >= 0 && field(record, i) != "" {
			level, perr := model.ParseActivityLevel(field(record, i))
			if perr != nil {
				return nil, fmt.Errorf("%w: row %d: %v", common.ErrSchema, line, perr)
			}
			row.UploadedLevel = level
		}
		if i := h.index(colStatus); i >= 0 && field(record, i) != "" {
			status, perr := model.ParseStatus(field(record, i))
			if perr != nil {
				return nil, fmt.Errorf("%w: row %d: %v", common.ErrSchema, line, perr)
			}
			row.UploadedStatus = status
		}
		if i := h.index(colDevice); i >= 0 && field(record, i) != "" {
			device, perr := model.ParseDeviceType(field(record, i))
			if perr != nil {
				return nil, fmt.Errorf("%w: row %d: %v", common.ErrSchema, line, perr)
			}
			row.UploadedDevice = device
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// ReadInvoices decodes raw per-invoice rows, clamping elapsed times at the
// configured cap.
func (r *Reader) ReadInvoices(src io.Reader) ([]model.InvoiceRecord, error) {
	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true

	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(h,
		[]string{colStore},
		[]string{colYear},
		[]string{colDay},
		[]string{colBucket},
		[]string{colRegister},
		[]string{colElapsed, colElapsedAlt},
		[]string{colItems, colItemsAlt},
		[]string{colSales, colSalesAlt},
	); err != nil {
		return nil, err
	}

	var invoices []model.InvoiceRecord
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", common.ErrSchema, line, err)
		}

		inv := model.InvoiceRecord{
			Store:      field(record, h.index(colStore)),
			RegisterID: field(record, h.index(colRegister)),
		}
		if inv.Year, err = cellInt(record, h, line, colYear); err != nil {
			return nil, err
		}
		if inv.DayIndex, err = cellInt(record, h, line, colDay); err != nil {
			return nil, err
		}
		if inv.TimeBucket, err = cellFloat(record, h, line, colBucket); err != nil {
			return nil, err
		}
		if inv.ElapsedTime, err = cellFloat(record, h, line, colElapsed, colElapsedAlt); err != nil {
			return nil, err
		}
		if inv.ItemCount, err = cellInt(record, h, line, colItems, colItemsAlt); err != nil {
			return nil, err
		}
		if inv.SaleAmount, err = cellFloat(record, h, line, colSales, colSalesAlt); err != nil {
			return nil, err
		}

		if inv.ElapsedTime > r.elapsedTimeCap {
			inv.ElapsedTime = r.elapsedTimeCap
		}

		if err := inv.Validate(); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", common.ErrSchema, line, err)
		}

		invoices = append(invoices, inv)
	}

	return invoices, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func cellInt(record []string, h header, line int, names ...string) (int, error) {
	raw := field(record, h.index(names...))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d: %s: not an integer: %q", common.ErrSchema, line, names[0], raw)
	}
	return v, nil
}

func cellFloat(record []string, h header, line int, names ...string) (float64, error) {
	raw := field(record, h.index(names...))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d: %s: not a number: %q", common.ErrSchema, line, names[0], raw)
	}
	return v, nil
}
