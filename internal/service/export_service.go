package service

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/benbjohnson/clock"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoLogs       = errors.New("暂无审计日志")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

const icsProductID = "-//LSPD//Dispatch Console//DE"

// ExportService 导出业务接口
//
//   - 审计日志与花名册导出为 Excel (.xlsx)
//   - 车辆检修与证照到期导出为 iCalendar (.ics)
//   - 输入为快照本身，HTTP 与命令行共用
type ExportService interface {
	ExportLogs(state *model.AppState) (*bytes.Buffer, string, error)
	ExportRoster(state *model.AppState) (*bytes.Buffer, string, error)
	ExportCalendar(state *model.AppState) (*bytes.Buffer, string, error)
}

type exportService struct {
	clock  clock.Clock
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(clk clock.Clock, logger *zap.Logger) ExportService {
	return &exportService{clock: clk, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportLogs 审计日志导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 一行一条日志，按时间倒序（与快照中的顺序一致）。

func (s *exportService) ExportLogs(state *model.AppState) (*bytes.Buffer, string, error) {
	if len(state.ITLogs) == 0 {
		return nil, "", ErrExportNoLogs
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "IT-Logs"
	if err := newSheet(f, sheet); err != nil {
		s.logger.Error("创建工作表失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", "C", 16)
	f.SetColWidth(sheet, "D", "D", 22)
	f.SetColWidth(sheet, "E", "E", 60)

	writeHeader(f, sheet, []any{"Zeitpunkt", "Kategorie", "Ereignis", "Benutzer", "Details"})
	for i, l := range state.ITLogs {
		f.SetSheetRow(sheet, cell("A", i+2), &[]any{
			l.Timestamp.Format("2006-01-02 15:04:05"),
			string(l.Category),
			l.EventType,
			l.Actor,
			l.Details,
		})
	}

	filename := fmt.Sprintf("it-logs_%s.xlsx", s.clock.Now().Format("20060102"))
	return s.write(f, filename)
}

// ═══════════════════════════════════════════════════════════
// ExportRoster 花名册导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 按警衔从高到低、同衔按姓名排序；包含当前位置与在岗状态。

func (s *exportService) ExportRoster(state *model.AppState) (*bytes.Buffer, string, error) {
	officers := append([]model.Officer(nil), state.Officers...)
	sort.SliceStable(officers, func(i, j int) bool {
		if li, lj := officers[i].Rank.Level(), officers[j].Rank.Level(); li != lj {
			return li > lj
		}
		return officers[i].DisplayName() < officers[j].DisplayName()
	})

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Dienstliste"
	if err := newSheet(f, sheet); err != nil {
		s.logger.Error("创建工作表失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "C", 22)
	f.SetColWidth(sheet, "D", "D", 30)
	f.SetColWidth(sheet, "E", "H", 16)

	writeHeader(f, sheet, []any{"Dienstnummer", "Name", "Rang", "Abteilungen", "Telefon", "Dienstzeit (h)", "Position", "Im Dienst"})
	for i, o := range officers {
		roles := make([]string, len(o.DepartmentRoles))
		for k, r := range o.DepartmentRoles {
			roles[k] = string(r)
		}
		onDuty := "Nein"
		if state.TimeClockState[o.ID].OnDuty() {
			onDuty = "Ja"
		}
		f.SetSheetRow(sheet, cell("A", i+2), &[]any{
			o.BadgeNumber,
			o.DisplayName(),
			string(o.Rank),
			strings.Join(roles, ", "),
			o.Phone,
			float64(o.TotalDutySeconds) / 3600,
			positionLabel(state, dispatch.PositionOf(state, o.ID)),
			onDuty,
		})
	}

	filename := fmt.Sprintf("dienstliste_%s.xlsx", s.clock.Now().Format("20060102"))
	return s.write(f, filename)
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar 检修与证照到期日历
// ═══════════════════════════════════════════════════════════
//
// 每辆车的下次检修与每张证照的到期日各生成一个全天事件。

func (s *exportService) ExportCalendar(state *model.AppState) (*bytes.Buffer, string, error) {
	now := s.clock.Now()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, v := range state.MasterFleet {
		if v.NextCheckup == nil {
			continue
		}
		evt := cal.AddEvent("checkup-" + v.ID)
		evt.SetDtStampTime(now)
		evt.SetAllDayStartAt(*v.NextCheckup)
		evt.SetAllDayEndAt(v.NextCheckup.AddDate(0, 0, 1))
		evt.SetSummary(fmt.Sprintf("Inspektion: %s (%s)", v.Name, v.LicensePlate))
		evt.SetDescription(fmt.Sprintf("Kilometerstand: %d", v.Mileage))
		evt.SetProperty(ics.ComponentPropertyCategories, "Fuhrpark")
	}

	for _, o := range state.Officers {
		for _, l := range o.Licenses {
			if l.ExpiryDate.IsZero() {
				continue
			}
			evt := cal.AddEvent("license-" + o.ID + "-" + l.ID)
			evt.SetDtStampTime(now)
			evt.SetAllDayStartAt(l.ExpiryDate)
			evt.SetAllDayEndAt(l.ExpiryDate.AddDate(0, 0, 1))
			evt.SetSummary(fmt.Sprintf("Lizenz läuft ab: %s (%s)", l.Name, o.DisplayName()))
			evt.SetDescription(fmt.Sprintf("Ausgestellt von %s am %s", l.Issuer, l.IssueDate.Format(time.DateOnly)))
			evt.SetProperty(ics.ComponentPropertyCategories, "Personal")
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("termine_%s.ics", now.Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) write(f *excelize.File, filename string) (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, filename, nil
}

// ── 辅助函数 ──

// newSheet 创建工作表并删除默认 Sheet1
func newSheet(f *excelize.File, name string) error {
	idx, err := f.NewSheet(name)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	return f.DeleteSheet("Sheet1")
}

func writeHeader(f *excelize.File, sheet string, titles []any) {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetSheetRow(sheet, "A1", &titles)
	f.SetCellStyle(sheet, "A1", cell(colName(len(titles)-1), 1), style)
}

func positionLabel(state *model.AppState, p dispatch.Position) string {
	var parts []string
	if p.InVehicle() {
		name := p.VehicleID
		if gi := state.GridIndex(p.VehicleID); gi >= 0 {
			name = state.Vehicles[gi].Name
		}
		parts = append(parts, fmt.Sprintf("%s (Sitz %d)", name, p.Seat+1))
	}
	if p.InHeader() {
		parts = append(parts, string(p.HeaderRole))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " / ")
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
