package types

// Sending is a pending transfer of an item between two users. It is created
// when the owner posts the item to a recipient and deleted when any transfer
// of the item completes. Token is the one-time confirmation token embedded in
// the confirmation URL.
type Sending struct {
	ID         int64  `json:"id"`
	ItemID     int64  `json:"item_id"`
	FromUserID int64  `json:"from_user_id"`
	ToUserID   int64  `json:"to_user_id"`
	Token      string `json:"token"`
}
