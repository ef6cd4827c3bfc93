package model

// Identity is the authenticated caller as reported by the identity
// provider. There is no local user table; ID is the stable identifier
// (the verified email) and is what note ownership is checked against.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// AccessToken is the provider token from the OAuth exchange. It lives
	// only for the duration of the callback request and is never persisted
	// or sent to clients.
	AccessToken string `json:"-"`
}
