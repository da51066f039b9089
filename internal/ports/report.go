package ports

import "hotel-erp/internal/types"

type ReportWriterPort interface {
	WriteSetupReport(path string, report types.SetupReport) error
}
