package spreadsheet

import (
	"fmt"
	"github.com/xuri/excelize/v2"
	"io"
	"strings"
)

// Row 是一行导入数据，Number 为工作表中的行号（从 1 开始，含表头）
type Row struct {
	Number int
	Cells  []string // 已补齐或截断为 ImportColumns 列，去掉首尾空白
}

func (r Row) Get(col int) string {
	return r.Cells[col]
}

// Write 把表头与数据行写成 xlsx
func Write(w io.Writer, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err = f.SetSheetRow(SheetName, cell, &rows[i]); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Read 读取当前工作表，跳过表头；少于三列的行直接忽略
func Read(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no active sheet")
	}

	rawRows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	var rows []Row
	for i, raw := range rawRows {
		if i == 0 {
			continue // 表头
		}
		if len(raw) < 3 {
			continue
		}

		cells := make([]string, ImportColumns)
		for j := 0; j < ImportColumns && j < len(raw); j++ {
			cells[j] = strings.TrimSpace(raw[j])
		}
		rows = append(rows, Row{Number: i + 1, Cells: cells})
	}

	return rows, nil
}
