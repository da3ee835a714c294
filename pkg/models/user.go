package models

type User struct {
	ID        string `bson:"_id" json:"id"`
	FirstName string `bson:"first_name" json:"firstName"`
	LastName  string `bson:"last_name" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Role      string `bson:"role" json:"role"`
}

type Product struct {
	ID       string `bson:"_id" json:"id"`
	Name     string `bson:"name" json:"name"`
	VendorID string `bson:"vendorId" json:"vendorId"`
}

// CustomerName is the display name joined onto orders.
type CustomerName struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
