package types

// ChatTurn is a single message in a client-held conversation. Role is either
// "user" or "assistant"; slice order is chronological and preserved all the
// way to the model.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatRequest carries either a single message or the full conversation so far.
// When both are set, Messages wins.
type ChatRequest struct {
	Message  string     `json:"message,omitempty"`
	Messages []ChatTurn `json:"messages,omitempty"`
}

type ChatResponse struct {
	Response         string   `json:"response"`
	Citations        []string `json:"citations,omitempty"`
	SearchEntryPoint string   `json:"searchEntryPoint,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthUser is the identity shape returned by /api/auth/me.
type AuthUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

type MeResponse struct {
	Authenticated bool      `json:"authenticated"`
	User          *AuthUser `json:"user"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}
