package models

// Page is the backend's paginated list envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	NewCount int     `json:"new_count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether another page follows.
func (p *Page[T]) HasNext() bool {
	return p != nil && p.Next != nil && *p.Next != ""
}

// ListParams are the search, ordering and page filters shared by the admin
// list endpoints. Zero values are not sent.
type ListParams struct {
	Search   string
	Ordering string
	Page     int
	IsNew    *bool
	Status   string
}

type Customer struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	ProfileImgURL string `json:"profile_img_url"`
	ProfileImg    string `json:"profile_img"`
	Orders        any    `json:"orders"`
}

type CustomerData struct {
	ID            int64   `json:"id"`
	DateJoined    string  `json:"date_joined"`
	Email         string  `json:"email"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	PhoneNumber   *string `json:"phone_number"`
	City          *string `json:"city"`
	Street        *string `json:"street"`
	Zip           *string `json:"zip"`
	ProfileImgURL *string `json:"profile_img_url"`
	ImageURL      *string `json:"image_url"`
}

type Translation struct {
	ID                 int64  `json:"id,omitempty"`
	Name               string `json:"name"`
	InitialText        string `json:"initial_text"`
	TranslatedText     string `json:"translated_text"`
	FormattedTimestamp string `json:"formatted_timestamp,omitempty"`
}

type BaseStats struct {
	TotalOrders int `json:"total_orders"`
	NewOrders   int `json:"new_orders"`
}

type StatusStat struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
	Label string `json:"label"`
}

type PeriodCount struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

type TypeStat struct {
	OrderType string `json:"order_type"`
	Value     int    `json:"value"`
}

type GeographyStat struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

type Comparison struct {
	Orders   []PeriodCount `json:"orders"`
	Requests []PeriodCount `json:"requests"`
}
