package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dto"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// ── 人事模块业务错误 ──

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（警号/名/姓）")
)

const maxImportRows = 500

// ImportRosterRow 花名册导入行
type ImportRosterRow struct {
	Row         int
	BadgeNumber string
	FirstName   string
	LastName    string
	Rank        string
	Phone       string
}

// OfficerService 人事业务接口：警员档案、处分、培训与花名册导入
type OfficerService interface {
	List(tab *Tab) []model.Officer
	Get(tab *Tab, officerID string) (*model.Officer, error)
	Create(ctx context.Context, tab *Tab, req *dto.OfficerRequest) (*model.Officer, error)
	Update(ctx context.Context, tab *Tab, officerID string, req *dto.OfficerRequest) (*model.Officer, error)
	Terminate(ctx context.Context, tab *Tab, officerID string) error
	AddSanction(ctx context.Context, tab *Tab, officerID string, req *dto.SanctionRequest) (*model.AppState, error)
	CompleteTraining(ctx context.Context, tab *Tab, moduleID string, req *dto.CompleteTrainingRequest) (*model.AppState, error)
	ParseImportFile(reader io.Reader) ([]ImportRosterRow, error)
	ImportRoster(ctx context.Context, tab *Tab, rows []ImportRosterRow) (*dto.ImportRosterResponse, error)
}

type officerService struct {
	logger *zap.Logger
}

// NewOfficerService 创建 OfficerService 实例
func NewOfficerService(logger *zap.Logger) OfficerService {
	return &officerService{logger: logger}
}

func (s *officerService) List(tab *Tab) []model.Officer {
	return tab.State().Officers
}

func (s *officerService) Get(tab *Tab, officerID string) (*model.Officer, error) {
	o, ok := tab.State().FindOfficer(officerID)
	if !ok {
		return nil, dispatch.ErrOfficerNotFound
	}
	return &o, nil
}

func (s *officerService) Create(ctx context.Context, tab *Tab, req *dto.OfficerRequest) (*model.Officer, error) {
	o := officerFromRequest(req)
	state, err := tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		o.ID = env.NewID()
		fillLicenseIDs(&o, env)
		out, err := dispatch.AddOfficer(st, env, o)
		if err != nil || req.Username == "" {
			return out, err
		}
		out, err = dispatch.AddCredential(out, env, o.ID, req.Username, req.Password)
		if err != nil {
			return st, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	created, _ := state.FindOfficer(o.ID)
	s.logger.Info("警员已创建", zap.String("officer_id", created.ID), zap.String("rank", string(created.Rank)))
	return &created, nil
}

func (s *officerService) Update(ctx context.Context, tab *Tab, officerID string, req *dto.OfficerRequest) (*model.Officer, error) {
	state, err := tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		existing, ok := st.FindOfficer(officerID)
		if !ok {
			return st, dispatch.ErrOfficerNotFound
		}
		o := officerFromRequest(req)
		o.ID = officerID
		o.TotalDutySeconds = existing.TotalDutySeconds
		fillLicenseIDs(&o, env)
		if o.Rank == "" {
			o.Rank = existing.Rank
		}
		return dispatch.UpdateOfficer(st, env, o)
	})
	if err != nil {
		return nil, err
	}
	updated, _ := state.FindOfficer(officerID)
	return &updated, nil
}

func (s *officerService) Terminate(ctx context.Context, tab *Tab, officerID string) error {
	if _, err := tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.TerminateOfficer(st, env, officerID)
	}); err != nil {
		return err
	}
	s.logger.Info("警员已解雇", zap.String("officer_id", officerID))
	return nil
}

func (s *officerService) AddSanction(ctx context.Context, tab *Tab, officerID string, req *dto.SanctionRequest) (*model.AppState, error) {
	return tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.AddSanction(st, env, model.Sanction{
			OfficerID: officerID,
			Type:      strings.TrimSpace(req.Type),
			Reason:    strings.TrimSpace(req.Reason),
		})
	})
}

func (s *officerService) CompleteTraining(ctx context.Context, tab *Tab, moduleID string, req *dto.CompleteTrainingRequest) (*model.AppState, error) {
	return tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		return dispatch.CompleteTraining(st, env, moduleID, req.OfficerID)
	})
}

// ────────────────────── ParseImportFile ──────────────────────

// ParseImportFile 解析花名册 Excel，第一行为表头，列序不限
func (s *officerService) ParseImportFile(reader io.Reader) ([]ImportRosterRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := parseRosterHeader(excelRows[0])
	if colIndex["badge"] < 0 || colIndex["first_name"] < 0 || colIndex["last_name"] < 0 {
		return nil, ErrImportBadHeader
	}
	cell := func(row []string, key string) string {
		if idx := colIndex[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportRosterRow
	for i := 1; i < len(excelRows); i++ {
		item := ImportRosterRow{
			Row:         i + 1,
			BadgeNumber: cell(excelRows[i], "badge"),
			FirstName:   cell(excelRows[i], "first_name"),
			LastName:    cell(excelRows[i], "last_name"),
			Rank:        cell(excelRows[i], "rank"),
			Phone:       cell(excelRows[i], "phone"),
		}
		// 跳过全空行
		if item.BadgeNumber == "" && item.FirstName == "" && item.LastName == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseRosterHeader 解析表头，返回列名 -> 列索引映射
func parseRosterHeader(header []string) map[string]int {
	idx := map[string]int{"badge": -1, "first_name": -1, "last_name": -1, "rank": -1, "phone": -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "dienstnummer", "警号", "badge", "badge_number":
			idx["badge"] = i
		case "vorname", "名", "first_name":
			idx["first_name"] = i
		case "nachname", "姓", "last_name":
			idx["last_name"] = i
		case "rang", "警衔", "rank":
			idx["rank"] = i
		case "telefon", "电话", "phone":
			idx["phone"] = i
		}
	}
	return idx
}

// ────────────────────── ImportRoster ──────────────────────

// ImportRoster 一次变更内逐行新增警员；失败行记录原因，全部失败时不写入
func (s *officerService) ImportRoster(ctx context.Context, tab *Tab, rows []ImportRosterRow) (*dto.ImportRosterResponse, error) {
	resp := &dto.ImportRosterResponse{Total: len(rows)}

	_, err := tab.Update(ctx, func(st *model.AppState, env dispatch.Env) (*model.AppState, error) {
		resp.Success, resp.Failed, resp.Errors = 0, 0, nil
		badges := make(map[string]bool, len(st.Officers))
		for _, o := range st.Officers {
			badges[o.BadgeNumber] = true
		}

		cur := st
		for _, row := range rows {
			if row.BadgeNumber == "" {
				resp.AddError(row.Row, "警号不能为空")
				continue
			}
			if badges[row.BadgeNumber] {
				resp.AddError(row.Row, fmt.Sprintf("警号 %s 已存在", row.BadgeNumber))
				continue
			}
			next, err := dispatch.AddOfficer(cur, env, model.Officer{
				BadgeNumber: row.BadgeNumber,
				FirstName:   row.FirstName,
				LastName:    row.LastName,
				Rank:        model.Rank(row.Rank),
				Phone:       row.Phone,
			})
			if err != nil {
				resp.AddError(row.Row, err.Error())
				continue
			}
			badges[row.BadgeNumber] = true
			resp.Success++
			cur = next
		}
		return cur, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("花名册导入完成",
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

func officerFromRequest(req *dto.OfficerRequest) model.Officer {
	o := model.Officer{
		BadgeNumber:   strings.TrimSpace(req.BadgeNumber),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Phone:         req.Phone,
		Gender:        model.Gender(req.Gender),
		Rank:          model.Rank(req.Rank),
		AssignedFTOID: req.AssignedFTOID,
	}
	for _, r := range req.DepartmentRoles {
		o.DepartmentRoles = append(o.DepartmentRoles, model.DepartmentRole(r))
	}
	for _, l := range req.Licenses {
		o.Licenses = append(o.Licenses, model.License{
			ID:         l.ID,
			Name:       l.Name,
			Issuer:     l.Issuer,
			IssueDate:  l.IssueDate,
			ExpiryDate: l.ExpiryDate,
		})
	}
	return o
}

func fillLicenseIDs(o *model.Officer, env dispatch.Env) {
	for i := range o.Licenses {
		if o.Licenses[i].ID == "" {
			o.Licenses[i].ID = env.NewID()
		}
	}
}
