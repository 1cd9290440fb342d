package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "学生信息"

// Column layout of the roster import template. Parsing is positional and
// must stay in sync with this order.
var studentHeaders = []string{
	"姓名", "学号", "年级", "班级", "班主任", "地址", "紧急联系人", "紧急联系电话", "备注",
}

var studentColWidths = []float64{15, 15, 10, 10, 15, 30, 15, 15, 30}

// StudentRow is one parsed roster row; Row carries the original 1-based
// spreadsheet row number for error reporting.
type StudentRow struct {
	Row              int
	Name             string
	StudentID        string
	Grade            string
	Class            string
	Teacher          string
	Address          string
	EmergencyContact string
	EmergencyPhone   string
	Notes            string
}

// BuildStudentTemplate renders the downloadable roster template: styled
// header, one sample row, grade dropdown, frozen header row.
func BuildStudentTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename template sheet: %w", err)
	}

	for i, header := range studentHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write template header: %w", err)
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, studentColWidths[i]); err != nil {
			return nil, fmt.Errorf("set template column width: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(studentHeaders))
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	sample := []interface{}{
		"张三（示例）", "S001", "高一", "1班", "李老师",
		"北京市海淀区XX街XX号", "张父", "13800138000", "这是一条示例数据",
	}
	if err := f.SetSheetRow(sheetName, "A2", &sample); err != nil {
		return nil, fmt.Errorf("write sample row: %w", err)
	}

	dv := excelize.NewDataValidation(true)
	dv.Sqref = "C2:C1000"
	if err := dv.SetDropList([]string{"高一", "高二", "高三"}); err != nil {
		return nil, fmt.Errorf("build grade dropdown: %w", err)
	}
	if err := f.AddDataValidation(sheetName, dv); err != nil {
		return nil, fmt.Errorf("add grade dropdown: %w", err)
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseStudentRows reads roster rows from the first sheet, skipping the
// header and fully empty rows.
func ParseStudentRows(r io.Reader) ([]StudentRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}

	parsed := make([]StudentRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		cells := make([]string, len(studentHeaders))
		empty := true
		for j := range cells {
			if j < len(row) {
				cells[j] = row[j]
				if cells[j] != "" {
					empty = false
				}
			}
		}
		if empty {
			continue
		}
		parsed = append(parsed, StudentRow{
			Row:              i + 1,
			Name:             cells[0],
			StudentID:        cells[1],
			Grade:            cells[2],
			Class:            cells[3],
			Teacher:          cells[4],
			Address:          cells[5],
			EmergencyContact: cells[6],
			EmergencyPhone:   cells[7],
			Notes:            cells[8],
		})
	}
	return parsed, nil
}
