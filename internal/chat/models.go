package chat

// Message kinds. Content carries the text, a media URL, or "lng,lat" for
// locations.
const (
	KindText     = "text"
	KindPhoto    = "photo"
	KindVideo    = "video"
	KindLocation = "location"
)

// Message is one element of a conversation's message list. Messages are
// appended and never mutated or deleted.
type Message struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Content     string `json:"content"`
	Date        string `json:"date"`
	SenderEmail string `json:"sender_email"`
	IsRead      bool   `json:"is_read"`
	Name        string `json:"name"`
}

// LatestMessage is the summary copied into each participant's projection
// row on every send.
type LatestMessage struct {
	Date    string `json:"date"`
	Message string `json:"message"`
	IsRead  bool   `json:"is_read"`
}

// Conversation is one participant's projection row. Each party holds an
// independent copy whose other_user_email names the opposite party; the
// two copies share only the conversation id.
type Conversation struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	OtherUserEmail string        `json:"other_user_email"`
	LatestMessage  LatestMessage `json:"latest_message"`
}
