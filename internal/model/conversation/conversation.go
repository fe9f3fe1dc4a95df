package conversation

import "time"

// Conversation links a buyer to a listing's seller.
type Conversation struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listingId"`
	BuyerID   string    `json:"buyerId"`
	SellerID  string    `json:"sellerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is a single in-app chat turn.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"createdAt"`
}
