package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/pkg/logger"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the spreadsheet export, in tab order.
const (
	SheetSkills     = "Skills"
	SheetProjects   = "Projects"
	SheetExperience = "Experience"
	SheetEducation  = "Education"
)

type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

// reportContent picks what the dashboard and the spreadsheet describe: the
// active portfolio, else the first one, else the legacy sections.
func reportContent(doc *domain.Document) (name string, skills domain.Skills, projects []domain.Project, experience domain.Experience) {
	reg := portfolio.NewRegistry(doc)
	p, ok := reg.GetActive()
	if !ok && reg.Len() > 0 {
		p, ok = &doc.Portfolios[0], true
	}
	if ok {
		return p.Name, p.Skills, p.Projects, p.Experience
	}
	t := target{doc: doc}
	return "", *t.skills(), *t.projects(), *t.experience()
}

// ExportWorkbook renders the reported portfolio as an xlsx file with one
// sheet per section.
func (u *settingsUsecase) ExportWorkbook(ctx context.Context) ([]byte, error) {
	doc, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	name, skills, projects, experience := reportContent(doc)

	data, err := buildWorkbook(workbookSheets(skills, projects, experience))
	if err != nil {
		return nil, toAppError(err)
	}
	logger.Log.Info("workbook exported", "portfolio", name, "bytes", len(data), "user", domain.ActorFromContext(ctx))
	return data, nil
}

func workbookSheets(skills domain.Skills, projects []domain.Project, experience domain.Experience) []sheet {
	skillSheet := sheet{name: SheetSkills, header: []string{"TYPE", "NAME", "DESCRIPTION"}}
	for _, s := range skills.Technical {
		skillSheet.rows = append(skillSheet.rows, []interface{}{domain.SkillTypeTechnical, s.Name, s.Description})
	}
	for _, s := range skills.Soft {
		skillSheet.rows = append(skillSheet.rows, []interface{}{domain.SkillTypeSoft, s.Name, s.Description})
	}

	projectSheet := sheet{name: SheetProjects, header: []string{"TITLE", "DESCRIPTION", "TECHNOLOGIES", "LINK"}}
	for _, p := range projects {
		projectSheet.rows = append(projectSheet.rows, []interface{}{p.Title, p.Description, strings.Join(p.Technologies, ", "), p.Link})
	}

	expSheet := sheet{name: SheetExperience, header: []string{"CATEGORY", "TITLE", "ORGANIZATION", "PERIOD", "DESCRIPTION", "LINK"}}
	for _, i := range experience.Internships {
		expSheet.rows = append(expSheet.rows, []interface{}{domain.CategoryInternship, i.Title, i.Company, i.Duration, i.Description, ""})
	}
	for _, t := range experience.Thesis {
		expSheet.rows = append(expSheet.rows, []interface{}{domain.CategoryThesis, t.Title, t.University, t.Year, t.Description, ""})
	}
	for _, c := range experience.Certifications {
		expSheet.rows = append(expSheet.rows, []interface{}{domain.CategoryCertification, c.Title, c.Issuer, c.Year, "", c.Link})
	}

	eduSheet := sheet{name: SheetEducation, header: []string{"DEGREE", "UNIVERSITY", "YEAR", "GPA", "HONORS", "DESCRIPTION", "CERTIFICATE"}}
	for _, e := range experience.Education {
		eduSheet.rows = append(eduSheet.rows, []interface{}{e.Degree, e.University, e.Year, e.GPA, e.Honors, e.Description, e.CertificateLink})
	}

	return []sheet{skillSheet, projectSheet, expSheet, eduSheet}
}

func buildWorkbook(sheets []sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Dark blue header row, white bold text.
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("workbook style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", s.name, err)
		}

		header := make([]interface{}, len(s.header))
		for j, h := range s.header {
			header[j] = h
		}
		if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
			return nil, fmt.Errorf("write %s header: %w", s.name, err)
		}
		endCell, _ := excelize.CoordinatesToCellName(len(s.header), 1)
		if err := f.SetCellStyle(s.name, "A1", endCell, headerStyle); err != nil {
			return nil, fmt.Errorf("style %s header: %w", s.name, err)
		}

		for r, row := range s.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return nil, fmt.Errorf("write %s row %d: %w", s.name, r+1, err)
			}
		}

		lastCol, _ := excelize.ColumnNumberToName(len(s.header))
		if err := f.SetColWidth(s.name, "A", lastCol, 24); err != nil {
			return nil, fmt.Errorf("size %s columns: %w", s.name, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
