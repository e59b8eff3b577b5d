package protocol

// User is the server-side identity bound to exactly one live session.
// Produced by the token validator; SessionID and ConnectedAt are stamped by
// the authentication handler before the user enters the registry.
type User struct {
	ID          string         `json:"id"`
	SessionID   string         `json:"sessionId"`
	ConnectedAt int64          `json:"connectedAt"` // unix millis
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type AuthenticatePayload struct {
	Token string `json:"token"`
}

type AuthenticatedPayload struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

type AuthErrorPayload struct {
	Message string `json:"message"`
}

type GetOnlineStatusPayload struct {
	UserIDs []string `json:"userIds"`
}

type OnlineStatusPayload struct {
	Statuses map[string]bool `json:"statuses"`
}

// PresencePayload is shared by user_online and user_offline.
type PresencePayload struct {
	UserID string `json:"userId"`
}

type SendMessagePayload struct {
	To       string         `json:"to"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type ReceiveMessagePayload struct {
	From      string         `json:"from"`
	Content   string         `json:"content"`
	Timestamp int64          `json:"timestamp"` // unix millis, time of routing
	MessageID string         `json:"messageId"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type MessageDeliveredPayload struct {
	MessageID string `json:"messageId"`
}

type MessageErrorPayload struct {
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error"`
}

// TypingPayload is the client request form of typing_start/typing_stop.
type TypingPayload struct {
	To string `json:"to"`
}

// TypingEventPayload is the server relay form of typing_start/typing_stop.
type TypingEventPayload struct {
	From string `json:"from"`
}
