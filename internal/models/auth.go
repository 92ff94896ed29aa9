package models

// AuthSession holds the Microsoft token pair server-side. The internal
// JWT only carries the session id, never these values.
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// TokenPair is what the identity provider returns from the code exchange
// and refresh grants.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
	IDToken      string `json:"id_token,omitempty"`
}

// LoginResponse is returned by GET /auth/login.
type LoginResponse struct {
	AuthURL string `json:"auth_url"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse is returned by POST /auth/refresh.
type RefreshResponse struct {
	AccessToken    string     `json:"access_token"`
	TokenType      string     `json:"token_type"`
	MicrosoftToken *TokenPair `json:"microsoft_token"`
}

// SyncResponse is the common result shape for sync operations.
type SyncResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	CustomersSynced int    `json:"customers_synced"`
	LastSync        string `json:"last_sync"`
}

// SyncStatus reports whether route data has been imported.
type SyncStatus struct {
	TotalCustomers int  `json:"total_customers"`
	TotalVisits    int  `json:"total_visits"`
	HasData        bool `json:"has_data"`
}
