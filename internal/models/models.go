package models

// Product represents one catalog entry. Quantity is the stock still
// available for sale, never negative.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Quantity    int    `json:"quantity"`
}

// CartLine represents units of a product reserved by the user. At most one
// line exists per product id, and Quantity is at least 1 while the line
// exists.
type CartLine struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Quantity    int    `json:"quantity"`
}

// Line builds the cart line that reserves qty units of p.
func (p Product) Line(qty int) CartLine {
	return CartLine{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Quantity:    qty,
	}
}

// Message kinds select the visual style of a status message.
const (
	KindSuccess = "success"
	KindDanger  = "danger"
	KindInfo    = "info"
)

// Message outcomes record whether the triggering operation mutated state.
// Kind and Outcome are deliberately separate: a successful removal renders
// with the danger style.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
)

// Message is an ephemeral user-facing status notice. It exists only for a
// fixed display window and is then cleared.
type Message struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Kind    string `json:"kind"`
	Outcome string `json:"outcome"`
}

const seedDescription = "Lorem ipsum dolor sit amet, consectetur adipisicing elit. " +
	"At dicta asperiores veniam repellat unde debitis quisquam magnam magni ut deleniti!"

// SeedCatalog returns the fixed initial product set used when no persisted
// catalog exists yet.
func SeedCatalog() []Product {
	return []Product{
		{ID: 1, Name: "Pizza", Description: seedDescription, Price: 30, Image: "images/pizza.jpg", Quantity: 5},
		{ID: 2, Name: "Hamburger", Description: seedDescription, Price: 15, Image: "images/hamburger.jpg", Quantity: 5},
		{ID: 3, Name: "Bread", Description: seedDescription, Price: 20, Image: "images/bread.jpg", Quantity: 5},
		{ID: 4, Name: "Cake", Description: seedDescription, Price: 10, Image: "images/Cake.jpg", Quantity: 5},
	}
}
