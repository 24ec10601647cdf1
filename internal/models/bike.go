package models

// Bike is a motorcycle listed in the storefront catalog.
type Bike struct {
	BaseModel
	Name             string  `json:"name"`
	Brand            string  `json:"brand"`
	ModelYear        int     `json:"model_year"`
	Category         string  `json:"category"`
	Price            float64 `json:"price"`
	Currency         string  `json:"currency"`
	EngineCC         int     `json:"engine_cc"`
	ShortDescription string  `json:"short_description"`
	LongDescription  string  `json:"long_description"`
	ImageURL         string  `json:"image_url"`
	StockCount       int     `json:"stock_count"`
	IsFeatured       bool    `json:"is_featured"`
	RatingAverage    float64 `json:"rating_average"`
	RatingCount      int     `json:"rating_count"`
}
