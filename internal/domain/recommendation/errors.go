package recommendation

import "errors"

// Error codes carried by apperrors.AppError.
const (
	CodeInvalidTimeframe     = "invalid_timeframe"
	CodeUnsupportedCondition = "unsupported_condition"
	CodeUnsupportedSeason    = "unsupported_season"
	CodeUnmappedCategory     = "unmapped_category"
	CodeProviderUnavailable  = "provider_unavailable"
	CodeCatalogError         = "catalog_error"
	CodeInvalidInput         = "invalid_input"
	CodeTimeframePersist     = "timeframe_persist_failed"
)

var (
	ErrInvalidTimeframe     = errors.New("invalid timeframe")
	ErrUnsupportedCondition = errors.New("unsupported weather condition")
	ErrUnsupportedSeason    = errors.New("unsupported season")
	ErrUnmappedCategory     = errors.New("unmapped category")
	ErrProviderUnavailable  = errors.New("provider unavailable")
)
