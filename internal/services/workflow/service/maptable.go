package service

import (
	"wardtpr/internal/core/tpr"
	rsvc "wardtpr/internal/services/resolve/service"
	"wardtpr/internal/services/workflow/domain"
)

// MapTable joins ward aggregates to their resolution. Every aggregate yields a
// row in aggregate order; unresolved wards keep a null canonical name. The
// uploaded LGA is kept and the boundary LGA only fills a blank one.
func MapTable(wards []tpr.WardAggregate, rep *rsvc.Report) []domain.MapRow {
	rows := make([]domain.MapRow, 0, len(wards))
	for _, w := range wards {
		row := domain.MapRow{
			WardNameRaw:   w.WardNameRaw,
			LGA:           w.LGA,
			TestedTotal:   w.TestedTotal,
			PositiveTotal: w.PositiveTotal,
			TPRPercent:    w.TPRPercent,
		}
		if rep != nil {
			if res, ok := rep.Lookup(w.WardNameRaw); ok && res.Resolved() {
				row.CanonicalWardName = res.Canonical
				row.ResolutionTechnique = res.Technique
				if row.LGA == "" && res.LGA != nil {
					row.LGA = *res.LGA
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}
