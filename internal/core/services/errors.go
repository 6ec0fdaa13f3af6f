package services

import "errors"

// Precondition failures returned by ReportService.Run before any scanning.
var (
	ErrCatalogNotFound = errors.New("asset catalog does not exist")
	ErrProjectNotFound = errors.New("project directory does not exist")
)
