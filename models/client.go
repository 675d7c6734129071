package models

// Client is the person booking services.
type Client struct {
	ID        string `bson:"id" json:"id"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	FirstName string `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Vehicle belongs to a client; (ownerId, plate) is unique.
type Vehicle struct {
	ID      string `bson:"id" json:"id"`
	OwnerID string `bson:"ownerId" json:"ownerId"`
	Plate   string `bson:"plate" json:"plate"`
	Brand   string `bson:"brand,omitempty" json:"brand,omitempty"`
	Model   string `bson:"model,omitempty" json:"model,omitempty"`
	Year    int    `bson:"year,omitempty" json:"year,omitempty"`
}

// Address belongs to a client; (ownerId, alias) is unique.
type Address struct {
	ID          string `bson:"id" json:"id"`
	OwnerID     string `bson:"ownerId" json:"ownerId"`
	Alias       string `bson:"alias" json:"alias"`
	Street      string `bson:"street" json:"street"`
	Number      string `bson:"number,omitempty" json:"number,omitempty"`
	Complement  string `bson:"complement,omitempty" json:"complement,omitempty"`
	CommuneID   string `bson:"communeId,omitempty" json:"communeId,omitempty"`
	CommuneName string `bson:"communeName,omitempty" json:"communeName,omitempty"`
}

// Commune is an administrative district an address belongs to.
type Commune struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}
