package models

// Requests for the forecast HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastHTTPRequest struct {
	UserID         string `json:"user_id" validate:"required"`
	Symbol         string `json:"symbol" validate:"required,min=1,max=12"`
	Model          string `json:"model" validate:"required,oneof=linear random_forest extra_trees k_nearest boosted_trees"`
	HorizonDays    int    `json:"horizon_days" default:"5" validate:"gte=1,lte=60"`
	TrainingWindow int    `json:"training_window_days" default:"100" validate:"gte=30,lte=3650"`
	Tier           string `json:"tier" validate:"required,oneof=free basic pro enterprise"`
}

type HistoryHTTPRequest struct {
	UserID string `query:"user_id" json:"user_id" validate:"required"`
	Limit  int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=200"`
}

type StockHTTPRequest struct {
	Days int `query:"days" json:"days" default:"30" validate:"gte=1,lte=3650"`
}

type IndicatorHTTPRequest struct {
	Indicator string `query:"indicator" json:"indicator" validate:"required,oneof=sma ema rsi macd bb"`
	Period    int    `query:"period" json:"period" default:"14" validate:"gte=2,lte=200"`
	Days      int    `query:"days" json:"days" default:"60" validate:"gte=30,lte=3650"`
}
