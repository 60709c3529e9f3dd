package domain

// Listing is one synthesized rental property. JSON names match the browser client.
type Listing struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Location      string   `json:"location"`
	Description   string   `json:"description"`
	PropertyType  string   `json:"propertyType"`
	KeyFeatures   []string `json:"keyFeatures"`
	PricePerNight float64  `json:"pricePerNight"`
	IdealFor      string   `json:"idealFor"`
	Rating        float64  `json:"rating"`
}

// ImageKey is the storage key of the listing's generated image.
func ImageKey(listingID string) string {
	return listingID + ".png"
}
