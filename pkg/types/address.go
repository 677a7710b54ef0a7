package types

// Address is a saved shipping address. Validation tags are applied when the
// address book adds or edits one.
type Address struct {
	ID           string `json:"_id,omitempty"`
	FullName     string `json:"fullName" validate:"required"`
	Mobile       string `json:"mobile" validate:"required,in_mobile"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Pincode      string `json:"pincode" validate:"required,numeric,len=6"`
	IsDefault    bool   `json:"isDefault"`
}

// User is the authenticated account.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile,omitempty"`
	Addresses []Address `json:"addresses"`
	CreatedAt string    `json:"createdAt"`
}

// DefaultAddress returns the address flagged default, else the first one.
func (u User) DefaultAddress() (Address, bool) {
	for _, addr := range u.Addresses {
		if addr.IsDefault {
			return addr, true
		}
	}
	if len(u.Addresses) > 0 {
		return u.Addresses[0], true
	}
	return Address{}, false
}

// AddressByID looks up a saved address.
func (u User) AddressByID(id string) (Address, bool) {
	for _, addr := range u.Addresses {
		if addr.ID == id {
			return addr, true
		}
	}
	return Address{}, false
}
