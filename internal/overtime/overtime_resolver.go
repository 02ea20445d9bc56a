package overtime

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Resolver menjawab berapa menit lembur yang sudah disetujui untuk satu
// tanggal kerja. Kegagalan lookup tidak boleh menggagalkan kalkulasi timesheet:
// hasilnya dianggap 0 dan dicatat sebagai warning.
type Resolver struct {
	repo   Repository
	logger *zap.Logger
}

func NewResolver(repo Repository, logger ...*zap.Logger) *Resolver {
	l := zap.L().Named("overtime.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("overtime.resolver")
	}
	return &Resolver{repo: repo, logger: l}
}

func (r *Resolver) ApprovedMinutes(ctx context.Context, companyID, employeeID string, workDate time.Time) int64 {
	minutes, err := r.repo.SumApprovedMinutes(ctx, companyID, employeeID, workDate)
	if err != nil {
		r.logger.Warn("approved overtime lookup failed, assuming zero",
			zap.String("company_id", companyID),
			zap.String("employee_id", employeeID),
			zap.String("work_date", workDate.Format("2006-01-02")),
			zap.Error(err),
		)
		return 0
	}
	return minutes
}
