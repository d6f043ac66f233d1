package models

// Order is a translation order.
type Order struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	PhoneNumber        string  `json:"phone_number"`
	City               string  `json:"city"`
	Street             string  `json:"street"`
	Zip                string  `json:"zip"`
	Message            string  `json:"message"`
	Status             string  `json:"status"`
	OrderType          string  `json:"order_type,omitempty"`
	Date               *string `json:"date"`
	FormattedTimestamp string  `json:"formatted_timestamp,omitempty"`
	IsNew              bool    `json:"is_new"`
	Files              []File  `json:"files"`
}

// File is a document attached to an order or message.
type File struct {
	ID        int64  `json:"id"`
	File      string `json:"file"`
	FileName  string `json:"file_name"`
	FileURL   string `json:"file_url,omitempty"`
	Order     *int64 `json:"order,omitempty"`
	MessageID *int64 `json:"message,omitempty"`
}

// OrderForm is the customer-facing order submission.
type OrderForm struct {
	Name        string
	Email       string
	PhoneNumber string
	City        string
	Street      string
	Zip         string
	Message     string
	Files       []*Upload
}

func (f OrderForm) Fields() map[string]string {
	return map[string]string{
		"name":         f.Name,
		"email":        f.Email,
		"phone_number": f.PhoneNumber,
		"city":         f.City,
		"street":       f.Street,
		"zip":          f.Zip,
		"message":      f.Message,
	}
}

// OrderUpdate is the admin PATCH payload. Nil fields are omitted.
type OrderUpdate struct {
	Status  *string `json:"status,omitempty"`
	Message *string `json:"message,omitempty"`
}
