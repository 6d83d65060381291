package models

// SellerStats backs the seller dashboard.
type SellerStats struct {
	LiveProducts  int   `json:"liveProducts"`
	DraftProducts int   `json:"draftProducts"`
	UnitsSold     int   `json:"unitsSold"`
	Revenue       int64 `json:"revenue"`
	PendingOrders int   `json:"pendingOrders"`
}
