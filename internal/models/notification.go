package models

import "time"

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

type NotificationType string

const (
	NTBid              NotificationType = "bid"
	NTBidAccepted      NotificationType = "bid_accepted"
	NTAdminBidAccepted NotificationType = "admin_bid_accepted"
)

// Notification is an ephemeral message between two parties. Sender and
// recipient are stored as kind+id pairs so the lookup stays explicit.
type Notification struct {
	Id            string             `db:"id" json:"id"`
	Message       string             `db:"message" json:"message"`
	Type          NotificationType   `db:"type" json:"type"`
	Status        NotificationStatus `db:"status" json:"status"`
	RecipientKind UserKind           `db:"recipient_kind" json:"recipientKind"`
	RecipientId   string             `db:"recipient_id" json:"recipientId"`
	SenderKind    UserKind           `db:"sender_kind" json:"senderKind"`
	SenderId      string             `db:"sender_id" json:"senderId"`
	CreatedAt     time.Time          `db:"created_at" json:"createdAt"`
}

func (n Notification) Recipient() PartyRef {
	return PartyRef{Kind: n.RecipientKind, Id: n.RecipientId}
}

func (n Notification) Sender() PartyRef {
	return PartyRef{Kind: n.SenderKind, Id: n.SenderId}
}
