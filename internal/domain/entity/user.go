package entity

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// User is the single account held by a device. The password is stored under
// its own key and never appears here.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	HasStore bool   `json:"hasStore"`

	StoreName string `json:"storeName,omitempty"`

	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`

	CreatedAt int64 `json:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// EffectiveRole treats accounts saved before roles existed as buyers.
func (u *User) EffectiveRole() string {
	if u.Role == "" {
		return RoleBuyer
	}
	return u.Role
}

// SellerStoreName is the display name of the user's own store.
func (u *User) SellerStoreName() string {
	if u.StoreName != "" {
		return u.StoreName
	}
	if u.Username != "" {
		return u.Username + "'s Sports Store"
	}
	return "My Sports Store"
}
