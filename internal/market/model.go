package market

// Price is one commodity quote at a mandi.
type Price struct {
	ID            string  `json:"id"`
	Commodity     string  `json:"commodity"`
	Variety       string  `json:"variety,omitempty"`
	Market        string  `json:"market"`
	District      string  `json:"district"`
	State         string  `json:"state"`
	Price         int     `json:"price"`
	Unit          string  `json:"unit"`
	Date          string  `json:"date"`
	Change        int     `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}
